package format

import (
	"bytes"
	"strconv"

	"github.com/tealog/tealog/core"
)

// Renderer replays a compiled token list over log entries. Renderers
// are immutable and shared; date tokens serialize on their own
// formatter instance, everything else is read-only.
type Renderer struct {
	tokens    []Token
	maxFrames int
}

// NewRenderer builds a renderer over compiled tokens. maxFrames is
// the frame budget handed to FormatError when a message token renders
// an error.
func NewRenderer(tokens []Token, maxFrames int) *Renderer {
	return &Renderer{tokens: tokens, maxFrames: maxFrames}
}

// Tokens returns the compiled token list.
func (r *Renderer) Tokens() []Token {
	return r.tokens
}

// RequiredValues returns the entry values the token list consumes.
func (r *Renderer) RequiredValues() core.EntryValues {
	return RequiredValues(r.tokens)
}

var newLineBytes = []byte(core.NewLine)

// Render appends the rendered entry to buf. The output ends with
// exactly one platform newline.
func (r *Renderer) Render(buf *bytes.Buffer, entry *core.LogEntry) {
	for _, token := range r.tokens {
		r.renderToken(buf, token, entry)
	}
	if !bytes.HasSuffix(buf.Bytes(), newLineBytes) {
		buf.WriteString(core.NewLine)
	}
}

// RenderString renders the entry into a pooled buffer and returns the
// resulting string.
func (r *Renderer) RenderString(entry *core.LogEntry) string {
	buf := GetBuffer()
	r.Render(buf, entry)
	rendered := buf.String()
	PutBuffer(buf)
	return rendered
}

func (r *Renderer) renderToken(buf *bytes.Buffer, token Token, entry *core.LogEntry) {
	switch token.Kind {
	case KindPlainText:
		buf.WriteString(token.Text)
	case KindDate:
		buf.WriteString(token.Date.Format(entry.Time))
	case KindThread:
		buf.WriteString("goroutine-")
		buf.WriteString(strconv.FormatInt(entry.GoroutineID, 10))
	case KindThreadID:
		buf.WriteString(strconv.FormatInt(entry.GoroutineID, 10))
	case KindClass:
		buf.WriteString(entry.Class)
	case KindClassName:
		buf.WriteString(entry.ClassName())
	case KindPackage:
		buf.WriteString(entry.PackageName())
	case KindMethod:
		buf.WriteString(entry.Method)
	case KindFile:
		buf.WriteString(entry.File)
	case KindLine:
		buf.WriteString(strconv.Itoa(entry.Line))
	case KindLevel:
		buf.WriteString(entry.Level.String())
	case KindMessage:
		buf.WriteString(entry.Message)
		if entry.Err != nil {
			// The separator follows any supplied message, even one that
			// rendered empty.
			if entry.HasMessage {
				buf.WriteString(": ")
			}
			FormatError(buf, entry.Err, r.maxFrames, core.NewLine)
		}
	}
}
