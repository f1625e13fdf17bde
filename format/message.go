package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tealog/tealog/errs"
	"golang.org/x/text/message"
)

// RenderValue renders a bare message value verbatim. Only positional
// arguments go through the locale printer; a bare value keeps its
// plain textual representation.
func RenderValue(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// RenderMessage substitutes positional placeholders {0}, {1}, … in
// pattern with the given arguments, each rendered through the locale
// printer. An index with no matching argument stays in the output
// literally. A placeholder that never closes or carries a non-numeric
// index is a render failure and returns an error.
func RenderMessage(p *message.Printer, pattern string, arguments []any) (string, error) {
	var b strings.Builder
	b.Grow(len(pattern) + 16*len(arguments))

	for i := 0; i < len(pattern); {
		c := pattern[i]
		if c != '{' {
			b.WriteByte(c)
			i++
			continue
		}

		end := strings.IndexByte(pattern[i:], '}')
		if end < 0 {
			return "", errs.Errorf("unterminated placeholder in message pattern %q", pattern)
		}
		end += i

		index, err := strconv.Atoi(pattern[i+1 : end])
		if err != nil {
			return "", errs.Errorf("non-numeric placeholder %q in message pattern %q", pattern[i:end+1], pattern)
		}
		if index >= 0 && index < len(arguments) {
			b.WriteString(renderArgument(p, arguments[index]))
		} else {
			b.WriteString(pattern[i : end+1])
		}
		i = end + 1
	}
	return b.String(), nil
}

func renderArgument(p *message.Printer, argument any) string {
	switch v := argument.(type) {
	case string:
		return v
	case error:
		return v.Error()
	default:
		return p.Sprint(argument)
	}
}
