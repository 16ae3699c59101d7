package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"pyfmt/internal/diag"
	"pyfmt/internal/lexer"
	"pyfmt/internal/source"
	"pyfmt/internal/token"
)

func makeTestFile(input string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("test.py", []byte(input)))
}

func scan(input string) ([]token.Token, *diag.Bag) {
	bag := diag.NewBag(32)
	toks := lexer.Tokenize(makeTestFile(input), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return toks, bag
}

// expectTokens checks the kind sequence, ignoring the trailing EOF.
func expectTokens(t *testing.T, input string, expected []token.Kind) {
	t.Helper()
	toks, bag := scan(input)
	if len(toks) > 0 && toks[len(toks)-1].Kind == token.EOF {
		toks = toks[:len(toks)-1]
	}
	if len(toks) != len(expected) {
		t.Fatalf("expected %d tokens, got %d\ninput: %q\ntokens: %s\ndiags: %d",
			len(expected), len(toks), input, tokensToString(toks), bag.Len())
	}
	for i, tok := range toks {
		if tok.Kind != expected[i] {
			t.Errorf("token %d: expected %v, got %v (text %q)", i, expected[i], tok.Kind, tok.Text)
		}
	}
}

func expectSingleToken(t *testing.T, input string, kind token.Kind, text string) {
	t.Helper()
	toks, _ := scan(input)
	if len(toks) == 0 {
		t.Fatalf("no tokens for %q", input)
	}
	tok := toks[0]
	if tok.Kind != kind {
		t.Errorf("expected kind %v, got %v", kind, tok.Kind)
	}
	if tok.Text != text {
		t.Errorf("expected text %q, got %q", text, tok.Text)
	}
}

func tokensToString(toks []token.Token) string {
	parts := make([]string, len(toks))
	for i, tok := range toks {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func TestIdentifiersAndKeywords(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"foo", token.Ident},
		{"_bar", token.Ident},
		{"x123", token.Ident},
		{"printed", token.Ident},
		{"def", token.KwDef},
		{"class", token.KwClass},
		{"lambda", token.KwLambda},
		{"None", token.KwNone},
		{"True", token.KwTrue},
		{"async", token.KwAsync},
		{"await", token.KwAwait},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}
}

func TestNumbers(t *testing.T) {
	tests := []string{
		"0", "42", "1_000_000",
		"0x1F", "0o755", "0b1010",
		"3.14", ".5", "10.",
		"1e10", "1e-5", "2.5E+3",
		"2j", "3.14J",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expectSingleToken(t, input, token.Number, input)
		})
	}
}

func TestStrings(t *testing.T) {
	tests := []string{
		`'hello'`,
		`"hello"`,
		`''`,
		`"it\'s"`,
		`'\n\t\\'`,
		`r'raw\n'`,
		`b"bytes"`,
		`f"interp {x}"`,
		`rb'both'`,
		`Rb'both'`,
		`"""triple"""`,
		`'''it's fine'''`,
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expectSingleToken(t, input, token.String, input)
		})
	}
}

func TestTripleStringSpansLines(t *testing.T) {
	input := "\"\"\"one\ntwo\nthree\"\"\"\n"
	toks, bag := scan(input)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %d", bag.Len())
	}
	if toks[0].Kind != token.String {
		t.Fatalf("expected String, got %v", toks[0].Kind)
	}
	if !toks[0].IsMultiline() || toks[0].Lines != 3 {
		t.Errorf("Lines = %d, want 3", toks[0].Lines)
	}
	if toks[0].Width != 6 {
		t.Errorf("Width = %d, want 6", toks[0].Width)
	}
	if toks[0].TailWidth != 8 {
		t.Errorf("TailWidth = %d, want 8", toks[0].TailWidth)
	}
}

func TestOperatorsLongestMatch(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"**", token.StarStar},
		{"**=", token.StarStarAssign},
		{"//", token.SlashSlash},
		{"//=", token.SlashSlashAssign},
		{"->", token.Arrow},
		{":=", token.ColonAssign},
		{"<<=", token.ShlAssign},
		{">>", token.Shr},
		{"<=", token.LtEq},
		{"!=", token.BangEq},
		{"...", token.Ellipsis},
		{"@", token.At},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}
}

func TestSimpleStatement(t *testing.T) {
	expectTokens(t, "x = 1\n", []token.Kind{
		token.Ident, token.Assign, token.Number, token.Newline,
	})
}

func TestNewlineSuppressedInsideBrackets(t *testing.T) {
	expectTokens(t, "f(a,\n  b)\n", []token.Kind{
		token.Ident, token.LParen, token.Ident, token.Comma,
		token.Ident, token.RParen, token.Newline,
	})
}

func TestNewlineSuppressedAfterBackslash(t *testing.T) {
	expectTokens(t, "x = 1 + \\\n    2\n", []token.Kind{
		token.Ident, token.Assign, token.Number, token.Plus, token.Number, token.Newline,
	})
}

func TestBlankLinesProduceNoTokens(t *testing.T) {
	expectTokens(t, "\n\n\nx = 1\n\n\n", []token.Kind{
		token.Ident, token.Assign, token.Number, token.Newline,
	})
}

func TestCommentOnlyLineHasNoNewline(t *testing.T) {
	expectTokens(t, "# just a comment\n", []token.Kind{token.CommentTok})
}

func TestTrailingCommentKeepsNewline(t *testing.T) {
	expectTokens(t, "x = 1  # note\n", []token.Kind{
		token.Ident, token.Assign, token.Number, token.CommentTok, token.Newline,
	})
}

func TestMissingFinalNewlineStillTerminatesLine(t *testing.T) {
	expectTokens(t, "x = 1", []token.Kind{
		token.Ident, token.Assign, token.Number, token.Newline,
	})
}

func TestStringPrefixIsPartOfToken(t *testing.T) {
	expectTokens(t, "x = f'{a}'\n", []token.Kind{
		token.Ident, token.Assign, token.String, token.Newline,
	})
}

func TestDotBeforeDigitIsNumber(t *testing.T) {
	expectTokens(t, "x = .25\n", []token.Kind{
		token.Ident, token.Assign, token.Number, token.Newline,
	})
}

func TestAttributeAccess(t *testing.T) {
	expectTokens(t, "a.b.c()\n", []token.Kind{
		token.Ident, token.Dot, token.Ident, token.Dot, token.Ident,
		token.LParen, token.RParen, token.Newline,
	})
}

func TestUnbalancedClosingBracketReported(t *testing.T) {
	_, bag := scan("x = )\n")
	if !bag.HasErrors() {
		t.Fatal("expected an error for unbalanced closing bracket")
	}
}

func TestUnterminatedStringReported(t *testing.T) {
	_, bag := scan("x = 'oops\n")
	if !bag.HasErrors() {
		t.Fatal("expected an error for unterminated string")
	}
}

func TestWalrusInCondition(t *testing.T) {
	expectTokens(t, "if (n := 10) > 5:\n    pass\n", []token.Kind{
		token.KwIf, token.LParen, token.Ident, token.ColonAssign, token.Number,
		token.RParen, token.Gt, token.Number, token.Colon, token.Newline,
		token.KwPass, token.Newline,
	})
}
