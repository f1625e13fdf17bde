// Package config loads logging configuration from YAML files, overlays
// environment variables and watches files for changes.
//
// A configuration file looks like:
//
//	level: warning
//	levels:
//	  com.example.app: debug
//	format: "{date} [{thread}] {level}: {message}"
//	locale: de
//	max_stack_trace_depth: 20
//	precise_timestamps: false
//	background:
//	  enabled: true
//	  capacity: 2048
//	  block_timeout: 250ms
//	  drain_timeout: 5s
//	writers:
//	  - type: console
//	  - type: file
//	    filename: app.log
//	    buffered: true
//	  - type: rolling
//	    filename: app.roll.log
//	    max_size: 10485760
//	    backups: 5
//	    interval: 24h
//
// Environment variables with the TEALOG_ prefix override file settings:
// TEALOG_LEVEL, TEALOG_FORMAT, TEALOG_LOCALE, TEALOG_MAX_STACK_TRACE_DEPTH,
// TEALOG_PRECISE_TIMESTAMPS, TEALOG_BACKGROUND_* and
// TEALOG_LEVEL_<NAME> for severity overrides, where underscores in NAME
// become dots and the name is lowercased (names containing slashes or
// uppercase letters are file-only). Writers cannot be set from the
// environment. Durations accept Go duration strings ("250ms", "24h").
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"golang.org/x/text/language"

	"github.com/tealog/tealog/core"
	"github.com/tealog/tealog/logger"
	"github.com/tealog/tealog/writers"
)

// envPrefix selects the environment variables that override file
// settings.
const envPrefix = "TEALOG_"

type fileConfig struct {
	Level              string           `koanf:"level"`
	Format             string           `koanf:"format"`
	Locale             string           `koanf:"locale"`
	MaxStackTraceDepth *int             `koanf:"max_stack_trace_depth"`
	PreciseTimestamps  *bool            `koanf:"precise_timestamps"`
	Background         backgroundConfig `koanf:"background"`
	Writers            []writerConfig   `koanf:"writers"`
}

type backgroundConfig struct {
	Enabled      bool          `koanf:"enabled"`
	Capacity     int           `koanf:"capacity"`
	BlockTimeout time.Duration `koanf:"block_timeout"`
	DrainTimeout time.Duration `koanf:"drain_timeout"`
}

type writerConfig struct {
	Type     string        `koanf:"type"`
	Filename string        `koanf:"filename"`
	Buffered bool          `koanf:"buffered"`
	MaxSize  int64         `koanf:"max_size"`
	Backups  int           `koanf:"backups"`
	Interval time.Duration `koanf:"interval"`
}

// Load reads a YAML configuration file, overlays TEALOG_* environment
// variables and builds a Configurator ready to Activate. A file without
// a writers section gets a console writer.
func Load(path string) (*logger.Configurator, error) {
	c, _, err := load(path)
	return c, err
}

// load also returns the writers it constructed so the watcher can close
// the ones a later reload replaces.
func load(path string) (*logger.Configurator, []writers.Writer, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}
	return buildConfigurator(k)
}

// envKey maps a TEALOG_* variable name to its config key. Unknown names
// map to the empty string, which drops them.
func envKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, envPrefix))
	if sub, ok := strings.CutPrefix(key, "level_"); ok && sub != "" {
		return "levels." + strings.ReplaceAll(sub, "_", ".")
	}
	switch key {
	case "level", "format", "locale", "max_stack_trace_depth", "precise_timestamps":
		return key
	case "background_enabled", "background_capacity", "background_block_timeout", "background_drain_timeout":
		return "background." + strings.TrimPrefix(key, "background_")
	}
	return ""
}

func buildConfigurator(k *koanf.Koanf) (*logger.Configurator, []writers.Writer, error) {
	var fc fileConfig
	if err := k.Unmarshal("", &fc); err != nil {
		return nil, nil, fmt.Errorf("failed to decode config: %w", err)
	}

	c := logger.NewConfigurator()

	if fc.Level != "" {
		level, err := core.ParseLevel(fc.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid level: %w", err)
		}
		c.Level(level)
	}
	for name, value := range levelOverrides(k) {
		level, err := core.ParseLevel(value)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid level for %s: %w", name, err)
		}
		c.LevelOf(name, level)
	}
	if fc.Format != "" {
		c.Format(fc.Format)
	}
	if fc.Locale != "" {
		tag, err := language.Parse(fc.Locale)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid locale %q: %w", fc.Locale, err)
		}
		c.Locale(tag)
	}
	if fc.MaxStackTraceDepth != nil {
		c.MaxStackTraceDepth(*fc.MaxStackTraceDepth)
	}
	if fc.PreciseTimestamps != nil {
		c.CoarseClock(!*fc.PreciseTimestamps)
	}

	if fc.Background.Enabled {
		c.Async(true)
		if fc.Background.Capacity > 0 {
			c.QueueCapacity(fc.Background.Capacity)
		}
		if fc.Background.BlockTimeout > 0 {
			c.BlockTimeout(fc.Background.BlockTimeout)
		}
		if fc.Background.DrainTimeout > 0 {
			c.DrainTimeout(fc.Background.DrainTimeout)
		}
	}

	var ws []writers.Writer
	if len(fc.Writers) == 0 {
		ws = append(ws, writers.NewConsoleWriter())
	}
	for i, wc := range fc.Writers {
		w, err := buildWriter(wc)
		if err != nil {
			return nil, nil, fmt.Errorf("writer %d: %w", i, err)
		}
		ws = append(ws, w)
	}
	c.Writers(ws...)
	return c, ws, nil
}

// levelOverrides folds the levels section back into dotted names. YAML
// keys carry their dots verbatim while environment overrides arrive
// pre-split on the delimiter, so both nested and flat shapes collapse
// into one map.
func levelOverrides(k *koanf.Koanf) map[string]string {
	out := map[string]string{}
	collectOverrides("", k.Get("levels"), out)
	return out
}

func collectOverrides(prefix string, value any, out map[string]string) {
	switch v := value.(type) {
	case map[string]any:
		for key, sub := range v {
			name := key
			if prefix != "" {
				name = prefix + "." + key
			}
			collectOverrides(name, sub, out)
		}
	case nil:
	default:
		if prefix != "" {
			out[prefix] = fmt.Sprint(v)
		}
	}
}

func buildWriter(wc writerConfig) (writers.Writer, error) {
	switch wc.Type {
	case "console", "":
		return writers.NewConsoleWriter(), nil
	case "file":
		if wc.Filename == "" {
			return nil, fmt.Errorf("file writer needs a filename")
		}
		return writers.NewFileWriter(wc.Filename, wc.Buffered), nil
	case "rolling":
		if wc.Filename == "" {
			return nil, fmt.Errorf("rolling writer needs a filename")
		}
		return writers.NewRollingFileWriter(writers.RollingConfig{
			Filename:       wc.Filename,
			MaxSize:        wc.MaxSize,
			RotateInterval: wc.Interval,
			MaxBackups:     wc.Backups,
			Buffered:       wc.Buffered,
		}), nil
	default:
		return nil, fmt.Errorf("unknown writer type %q", wc.Type)
	}
}
