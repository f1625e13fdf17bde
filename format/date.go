package format

import (
	"strconv"
	"sync"
	"time"
)

type dateSegmentKind uint8

const (
	segmentLiteral dateSegmentKind = iota
	segmentLayout
	segmentFraction
)

// dateSegment is one compiled piece of a date sub-pattern: a literal
// span, a Go reference-time layout fragment, or a fractional-second
// field of fixed width. Keeping literals out of the layout string
// avoids collisions with reference-time magic values.
type dateSegment struct {
	kind  dateSegmentKind
	text  string
	width int
}

// DateFormatter renders timestamps through a sub-pattern compiled
// once. Instances are shared across renders of the same token and are
// not reentrant: the scratch buffer is reused, so Format serializes on
// the per-instance mutex.
type DateFormatter struct {
	segments []dateSegment

	mu      sync.Mutex
	scratch []byte
}

// NewDateFormatter compiles a sub-pattern in the letter syntax used
// by format patterns ("yyyy-MM-dd HH:mm:ss,SSS"). Unsupported letters
// pass through as literal text.
func NewDateFormatter(pattern string) *DateFormatter {
	return &DateFormatter{segments: compileDatePattern(pattern)}
}

// Format renders t. Safe for concurrent use; concurrent callers
// serialize on this formatter instance only.
func (f *DateFormatter) Format(t time.Time) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.scratch = f.scratch[:0]
	for _, seg := range f.segments {
		switch seg.kind {
		case segmentLiteral:
			f.scratch = append(f.scratch, seg.text...)
		case segmentLayout:
			f.scratch = t.AppendFormat(f.scratch, seg.text)
		case segmentFraction:
			f.scratch = appendFraction(f.scratch, t, seg.width)
		}
	}
	return string(f.scratch)
}

// appendFraction writes the leading width digits of the sub-second
// part, zero padded.
func appendFraction(buf []byte, t time.Time, width int) []byte {
	nanos := t.Nanosecond()
	digits := strconv.Itoa(nanos + 1e9)[1:] // zero-padded 9 digits
	if width > len(digits) {
		width = len(digits)
	}
	return append(buf, digits[:width]...)
}

// compileDatePattern translates runs of pattern letters into layout
// segments. Single-quoted spans are literals; two quotes inside a
// span produce one quote; an unterminated quote runs to the end.
func compileDatePattern(pattern string) []dateSegment {
	var segments []dateSegment
	literal := func(text string) {
		if text == "" {
			return
		}
		n := len(segments)
		if n > 0 && segments[n-1].kind == segmentLiteral {
			segments[n-1].text += text
			return
		}
		segments = append(segments, dateSegment{kind: segmentLiteral, text: text})
	}
	layout := func(text string) {
		segments = append(segments, dateSegment{kind: segmentLayout, text: text})
	}

	for i := 0; i < len(pattern); {
		c := pattern[i]

		if c == '\'' {
			i++
			var quoted []byte
			for i < len(pattern) {
				if pattern[i] == '\'' {
					if i+1 < len(pattern) && pattern[i+1] == '\'' {
						quoted = append(quoted, '\'')
						i += 2
						continue
					}
					i++
					break
				}
				quoted = append(quoted, pattern[i])
				i++
			}
			if len(quoted) == 0 {
				literal("'") // '' outside a span is a single quote
			} else {
				literal(string(quoted))
			}
			continue
		}

		if !isPatternLetter(c) {
			j := i
			for j < len(pattern) && !isPatternLetter(pattern[j]) && pattern[j] != '\'' {
				j++
			}
			literal(pattern[i:j])
			i = j
			continue
		}

		j := i
		for j < len(pattern) && pattern[j] == c {
			j++
		}
		n := j - i
		i = j

		switch c {
		case 'y':
			if n >= 4 {
				layout("2006")
			} else {
				layout("06")
			}
		case 'M':
			switch {
			case n >= 4:
				layout("January")
			case n == 3:
				layout("Jan")
			case n == 2:
				layout("01")
			default:
				layout("1")
			}
		case 'd':
			if n >= 2 {
				layout("02")
			} else {
				layout("2")
			}
		case 'E':
			if n >= 4 {
				layout("Monday")
			} else {
				layout("Mon")
			}
		case 'H':
			layout("15")
		case 'h':
			if n >= 2 {
				layout("03")
			} else {
				layout("3")
			}
		case 'm':
			if n >= 2 {
				layout("04")
			} else {
				layout("4")
			}
		case 's':
			if n >= 2 {
				layout("05")
			} else {
				layout("5")
			}
		case 'S':
			segments = append(segments, dateSegment{kind: segmentFraction, width: n})
		case 'a':
			layout("PM")
		case 'z':
			layout("MST")
		case 'Z':
			layout("-0700")
		case 'X':
			layout("Z07:00")
		default:
			// unsupported letter, keep it visible rather than guess
			literal(pattern[i-n : i])
		}
	}
	return segments
}

func isPatternLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
