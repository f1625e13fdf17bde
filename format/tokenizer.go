package format

import (
	"regexp"
	"strings"

	"github.com/tealog/tealog/core"
)

// DefaultDatePattern is the sub-pattern used by a bare {date}
// placeholder.
const DefaultDatePattern = "yyyy-MM-dd HH:mm:ss"

var (
	newLineReplacer = regexp.MustCompile(`\r\n|\\r\\n|\n|\\n|\r|\\r`)
	tabReplacer     = regexp.MustCompile(`\t|\\t`)
)

// Compile parses a format pattern into its token list. It is a pure
// function, called once per configuration build; rendering replays the
// returned tokens.
//
// A literal run ends when an unnested '{' starts a placeholder; braces
// nest inside a placeholder, so only the brace returning the nesting
// count to zero closes it. The tail after the last placeholder, or a
// dangling unterminated '{', is flushed as plain text. Unknown
// placeholders are not an error; they stay in the output literally.
func Compile(pattern string) []Token {
	var tokens []Token
	start := 0
	openMarkers := 0

	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '{':
			if openMarkers == 0 && start < i {
				tokens = append(tokens, plainTextToken(pattern[start:i]))
				start = i
			}
			openMarkers++
		case '}':
			if openMarkers > 0 {
				openMarkers--
				if openMarkers == 0 {
					tokens = append(tokens, placeholderToken(pattern[start:i+1]))
					start = i + 1
				}
			}
		}
	}

	if start < len(pattern) {
		tokens = append(tokens, plainTextToken(pattern[start:]))
	}
	return tokens
}

func plainTextToken(text string) Token {
	return Token{Kind: KindPlainText, Text: normalizeEscapes(text)}
}

// placeholderToken resolves one brace-delimited span, braces included.
// Spans that match no known placeholder degrade to plain text.
func placeholderToken(text string) Token {
	switch text {
	case "{date}":
		return Token{Kind: KindDate, Date: NewDateFormatter(DefaultDatePattern)}
	case "{pid}":
		return Token{Kind: KindPlainText, Text: core.ProcessIDString()}
	case "{thread}":
		return Token{Kind: KindThread}
	case "{thread_id}":
		return Token{Kind: KindThreadID}
	case "{class}":
		return Token{Kind: KindClass}
	case "{class_name}":
		return Token{Kind: KindClassName}
	case "{package}":
		return Token{Kind: KindPackage}
	case "{method}":
		return Token{Kind: KindMethod}
	case "{file}":
		return Token{Kind: KindFile}
	case "{line}":
		return Token{Kind: KindLine}
	case "{level}":
		return Token{Kind: KindLevel}
	case "{message}":
		return Token{Kind: KindMessage}
	}
	if sub, ok := strings.CutPrefix(text, "{date:"); ok && strings.HasSuffix(sub, "}") {
		return Token{Kind: KindDate, Date: NewDateFormatter(sub[:len(sub)-1])}
	}
	return plainTextToken(text)
}

// normalizeEscapes rewrites literal and backslash-escaped newline
// forms to the platform newline and tab forms to a tab.
func normalizeEscapes(text string) string {
	text = newLineReplacer.ReplaceAllString(text, core.NewLine)
	return tabReplacer.ReplaceAllString(text, "\t")
}
