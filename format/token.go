package format

import (
	"github.com/tealog/tealog/core"
)

// TokenKind identifies what a compiled pattern token renders.
type TokenKind uint8

const (
	// KindPlainText renders a literal string
	KindPlainText TokenKind = iota
	// KindDate renders the entry timestamp through a compiled layout
	KindDate
	// KindThread renders the calling goroutine as "goroutine-<id>"
	KindThread
	// KindThreadID renders the bare goroutine id
	KindThreadID
	// KindClass renders the fully qualified owner of the call site
	KindClass
	// KindClassName renders the owner without its package
	KindClassName
	// KindPackage renders the package of the call site
	KindPackage
	// KindMethod renders the calling function name
	KindMethod
	// KindFile renders the source file name
	KindFile
	// KindLine renders the source line
	KindLine
	// KindLevel renders the severity name
	KindLevel
	// KindMessage renders the message and, when present, the error
	KindMessage
)

// Token is one compiled element of a format pattern. Tokens are
// immutable after compilation and replayed for every rendered entry.
type Token struct {
	Kind TokenKind
	// Text is the literal for KindPlainText tokens
	Text string
	// Date is the compiled formatter for KindDate tokens
	Date *DateFormatter
}

// RequiredValues returns the entry values rendering the token consumes.
func (t Token) RequiredValues() core.EntryValues {
	switch t.Kind {
	case KindDate:
		return core.EntryValues(core.ValueDate)
	case KindThread, KindThreadID:
		return core.EntryValues(core.ValueGoroutine)
	case KindClass, KindClassName, KindPackage:
		return core.EntryValues(core.ValueClass)
	case KindMethod:
		return core.EntryValues(core.ValueMethod)
	case KindFile:
		return core.EntryValues(core.ValueFile)
	case KindLine:
		return core.EntryValues(core.ValueLine)
	case KindMessage:
		return core.EntryValues(core.ValueMessage)
	default:
		return 0
	}
}

// RequiredValues returns the union of what every token in the list
// consumes. Computed once per configuration build.
func RequiredValues(tokens []Token) core.EntryValues {
	var set core.EntryValues
	for _, t := range tokens {
		set = set.Union(t.RequiredValues())
	}
	return set
}
