package token_test

import (
	"testing"

	"pyfmt/internal/source"
	"pyfmt/internal/token"
)

func mk(kind token.Kind, text string) token.Token {
	return token.New(kind, source.Span{}, text)
}

func TestKindString(t *testing.T) {
	cases := []struct {
		kind token.Kind
		want string
	}{
		{token.Invalid, "Invalid"},
		{token.EOF, "EOF"},
		{token.Newline, "Newline"},
		{token.Ident, "Ident"},
		{token.CommentTok, "Comment"},
		{token.KwLambda, "lambda"},
		{token.Ellipsis, "..."},
		{token.Arrow, "->"},
		{token.SlashSlashAssign, "//="},
		{token.ColonAssign, ":="},
	}
	for _, tc := range cases {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tc.kind, got, tc.want)
		}
	}
	if got := token.Kind(255).String(); got != "Kind(?)" {
		t.Errorf("out-of-range kind = %q", got)
	}
}

func TestLookupKeyword(t *testing.T) {
	cases := []struct {
		text string
		want token.Kind
	}{
		{"def", token.KwDef},
		{"None", token.KwNone},
		{"yield", token.KwYield},
		{"async", token.KwAsync},
		{"match", token.Ident}, // soft keyword, scanned as an identifier
		{"Def", token.Ident},
		{"", token.Ident},
	}
	for _, tc := range cases {
		if got := token.LookupKeyword(tc.text); got != tc.want {
			t.Errorf("LookupKeyword(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestPredicates(t *testing.T) {
	if !mk(token.KwFalse, "False").IsKeyword() || !mk(token.KwYield, "yield").IsKeyword() {
		t.Error("keyword range endpoints must satisfy IsKeyword")
	}
	if mk(token.Ident, "x").IsKeyword() || mk(token.LParen, "(").IsKeyword() {
		t.Error("non-keywords must not satisfy IsKeyword")
	}

	if !mk(token.Assign, "=").IsOperator() || !mk(token.ColonAssign, ":=").IsOperator() {
		t.Error("operator range endpoints must satisfy IsOperator")
	}
	if mk(token.Comma, ",").IsOperator() || mk(token.At, "@").IsOperator() {
		t.Error("punctuation must not satisfy IsOperator")
	}

	for _, k := range []token.Kind{token.Lt, token.Gt, token.LtEq, token.GtEq, token.EqEq, token.BangEq} {
		if !mk(k, k.String()).IsComparison() {
			t.Errorf("%v should be a comparison", k)
		}
	}
	if mk(token.Assign, "=").IsComparison() {
		t.Error("plain assign is not a comparison")
	}

	for _, k := range []token.Kind{token.LParen, token.LBracket, token.LBrace} {
		if !mk(k, k.String()).IsOpenBracket() {
			t.Errorf("%v should open a bracket", k)
		}
	}
	for _, k := range []token.Kind{token.RParen, token.RBracket, token.RBrace} {
		if !mk(k, k.String()).IsCloseBracket() {
			t.Errorf("%v should close a bracket", k)
		}
	}
	if mk(token.Lt, "<").IsOpenBracket() || mk(token.Gt, ">").IsCloseBracket() {
		t.Error("comparison operators are not brackets")
	}

	for _, tok := range []token.Token{
		mk(token.Number, "1"),
		mk(token.String, "'s'"),
		mk(token.KwTrue, "True"),
		mk(token.KwNone, "None"),
	} {
		if !tok.IsLiteral() {
			t.Errorf("%v should be a literal", tok.Kind)
		}
	}
	if mk(token.Ident, "x").IsLiteral() {
		t.Error("identifiers are not literals")
	}
}

func TestDisplayWidth(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"hello", 5},
		{"héllo", 5},
		{"héllo", 5}, // decomposed accent, NFC-folds to one column
		{"日本語", 6},         // wide runes take two columns each
		{"x = 1", 5},
	}
	for _, tc := range cases {
		if got := token.DisplayWidth(tc.text); got != tc.want {
			t.Errorf("DisplayWidth(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestNewMeasuresGeometry(t *testing.T) {
	single := mk(token.Ident, "value")
	if single.Width != 5 || single.TailWidth != 5 || single.Lines != 1 {
		t.Errorf("single line: Width=%d TailWidth=%d Lines=%d", single.Width, single.TailWidth, single.Lines)
	}
	if single.IsMultiline() {
		t.Error("single-line token reported as multiline")
	}

	triple := mk(token.String, "\"\"\"one\ntwo\nthree\"\"\"")
	if triple.Width != 6 {
		t.Errorf("first-line width = %d, want 6", triple.Width)
	}
	if triple.TailWidth != 8 {
		t.Errorf("tail width = %d, want 8", triple.TailWidth)
	}
	if triple.Lines != 3 {
		t.Errorf("lines = %d, want 3", triple.Lines)
	}
	if !triple.IsMultiline() {
		t.Error("triple-quoted string should be multiline")
	}
}
