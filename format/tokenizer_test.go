package format

import (
	"testing"

	"github.com/tealog/tealog/core"
)

func TestCompileEmptyPattern(t *testing.T) {
	if tokens := Compile(""); len(tokens) != 0 {
		t.Errorf("Compile(\"\") = %d tokens, want 0", len(tokens))
	}
}

func TestCompilePlainText(t *testing.T) {
	tokens := Compile("just some text")
	if len(tokens) != 1 {
		t.Fatalf("Expected 1 token, got %d", len(tokens))
	}
	if tokens[0].Kind != KindPlainText || tokens[0].Text != "just some text" {
		t.Errorf("Token = %+v, want plain text %q", tokens[0], "just some text")
	}
}

func TestCompilePlaceholders(t *testing.T) {
	tests := []struct {
		pattern string
		kind    TokenKind
	}{
		{"{thread}", KindThread},
		{"{thread_id}", KindThreadID},
		{"{class}", KindClass},
		{"{class_name}", KindClassName},
		{"{package}", KindPackage},
		{"{method}", KindMethod},
		{"{file}", KindFile},
		{"{line}", KindLine},
		{"{level}", KindLevel},
		{"{message}", KindMessage},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			tokens := Compile(tt.pattern)
			if len(tokens) != 1 {
				t.Fatalf("Expected 1 token, got %d", len(tokens))
			}
			if tokens[0].Kind != tt.kind {
				t.Errorf("Kind = %d, want %d", tokens[0].Kind, tt.kind)
			}
		})
	}
}

func TestCompileOnlyPlaceholders(t *testing.T) {
	tokens := Compile("{level}{message}")
	if len(tokens) != 2 {
		t.Fatalf("Expected 2 tokens, got %d", len(tokens))
	}
	for _, token := range tokens {
		if token.Kind == KindPlainText {
			t.Errorf("Placeholder-only pattern produced a plain text token %+v", token)
		}
	}
}

func TestCompileMixed(t *testing.T) {
	tokens := Compile("a{level}b{line}c")
	wantKinds := []TokenKind{KindPlainText, KindLevel, KindPlainText, KindLine, KindPlainText}
	if len(tokens) != len(wantKinds) {
		t.Fatalf("Expected %d tokens, got %d", len(wantKinds), len(tokens))
	}
	for i, want := range wantKinds {
		if tokens[i].Kind != want {
			t.Errorf("Token %d kind = %d, want %d", i, tokens[i].Kind, want)
		}
	}
	if tokens[0].Text != "a" || tokens[2].Text != "b" || tokens[4].Text != "c" {
		t.Errorf("Literal runs lost: %+v", tokens)
	}
}

func TestCompilePid(t *testing.T) {
	tokens := Compile("{pid}")
	if len(tokens) != 1 {
		t.Fatalf("Expected 1 token, got %d", len(tokens))
	}
	if tokens[0].Kind != KindPlainText {
		t.Fatalf("Expected {pid} to resolve at compile time, got kind %d", tokens[0].Kind)
	}
	if tokens[0].Text != core.ProcessIDString() {
		t.Errorf("Text = %q, want %q", tokens[0].Text, core.ProcessIDString())
	}
}

func TestCompileUnknownPlaceholder(t *testing.T) {
	tokens := Compile("{bogus}")
	if len(tokens) != 1 {
		t.Fatalf("Expected 1 token, got %d", len(tokens))
	}
	if tokens[0].Kind != KindPlainText || tokens[0].Text != "{bogus}" {
		t.Errorf("Unknown placeholder should stay literal, got %+v", tokens[0])
	}
}

func TestCompileUnterminatedBrace(t *testing.T) {
	tokens := Compile("start {message")
	if len(tokens) != 2 {
		t.Fatalf("Expected 2 tokens, got %d", len(tokens))
	}
	if tokens[1].Kind != KindPlainText || tokens[1].Text != "{message" {
		t.Errorf("Dangling brace should degrade to plain text, got %+v", tokens[1])
	}
}

func TestCompileNestedBraces(t *testing.T) {
	tokens := Compile("{date:{x}}")
	if len(tokens) != 1 {
		t.Fatalf("Nested braces must stay in one placeholder, got %d tokens", len(tokens))
	}
	if tokens[0].Kind != KindDate {
		t.Fatalf("Kind = %d, want date", tokens[0].Kind)
	}
}

func TestCompileDateDefault(t *testing.T) {
	tokens := Compile("{date}")
	if len(tokens) != 1 || tokens[0].Kind != KindDate {
		t.Fatalf("Expected a single date token, got %+v", tokens)
	}
	if tokens[0].Date == nil {
		t.Fatal("Date token has no compiled formatter")
	}
}

func TestCompileEscapes(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    string
	}{
		{"escaped n", `a\nb`, "a" + core.NewLine + "b"},
		{"escaped r", `a\rb`, "a" + core.NewLine + "b"},
		{"escaped rn", `a\r\nb`, "a" + core.NewLine + "b"},
		{"literal newline", "a\nb", "a" + core.NewLine + "b"},
		{"literal cr", "a\rb", "a" + core.NewLine + "b"},
		{"literal crlf", "a\r\nb", "a" + core.NewLine + "b"},
		{"escaped tab", `a\tb`, "a\tb"},
		{"literal tab", "a\tb", "a\tb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Compile(tt.pattern)
			if len(tokens) != 1 {
				t.Fatalf("Expected 1 token, got %d", len(tokens))
			}
			if tokens[0].Text != tt.want {
				t.Errorf("Text = %q, want %q", tokens[0].Text, tt.want)
			}
		})
	}
}

func TestCompileEscapesInUnknownPlaceholder(t *testing.T) {
	tokens := Compile(`{foo\n}`)
	if len(tokens) != 1 {
		t.Fatalf("Expected 1 token, got %d", len(tokens))
	}
	if tokens[0].Text != "{foo"+core.NewLine+"}" {
		t.Errorf("Text = %q, escapes should normalize inside degraded placeholders", tokens[0].Text)
	}
}

func TestRequiredValues(t *testing.T) {
	tokens := Compile("{date} {class} {message}")
	set := RequiredValues(tokens)

	for _, v := range []core.EntryValue{core.ValueDate, core.ValueClass, core.ValueMessage} {
		if !set.Has(v) {
			t.Errorf("Required set is missing %b", v)
		}
	}
	if set.Has(core.ValueLine) || set.Has(core.ValueGoroutine) {
		t.Error("Required set contains values no token consumes")
	}
	if !set.NeedsCaller() {
		t.Error("A {class} token must force caller capture")
	}
	if set.NeedsFullCaller() {
		t.Error("{class} alone must not force full caller capture")
	}
}

func TestRequiredValuesThread(t *testing.T) {
	set := RequiredValues(Compile("[{thread}] {thread_id}"))
	if !set.Has(core.ValueGoroutine) {
		t.Error("Thread tokens must require the goroutine value")
	}
	if set.NeedsCaller() {
		t.Error("Thread tokens must not force caller capture")
	}
}
