package lexer

import (
	"strings"

	"pyfmt/internal/diag"
	"pyfmt/internal/token"
)

// isStringPrefix reports whether an identifier spelling is a valid string
// literal prefix (r, b, u, f and their combinations, any case).
func isStringPrefix(text string) bool {
	if len(text) == 0 || len(text) > 2 {
		return false
	}
	return strings.IndexFunc(strings.ToLower(text), func(r rune) bool {
		return r != 'r' && r != 'b' && r != 'u' && r != 'f'
	}) < 0
}

// scanString consumes a string literal. The cursor sits on the opening quote;
// start marks the beginning of the literal including any prefix. Triple-quoted
// strings may span physical lines and are kept verbatim in one token.
func (lx *Lexer) scanString(start Mark) token.Token {
	quote := lx.cursor.Bump()
	raw := strings.ContainsAny(strings.ToLower(lx.textFrom(start)), "r")

	triple := false
	if lx.cursor.Peek() == quote && lx.cursor.PeekAt(1) == quote {
		lx.cursor.Bump()
		lx.cursor.Bump()
		triple = true
	}

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '\\' && !raw:
			lx.cursor.Bump()
			if !lx.cursor.EOF() {
				lx.cursor.Bump()
			}
		case b == quote:
			lx.cursor.Bump()
			if !triple {
				return lx.stringToken(start)
			}
			if lx.cursor.Peek() == quote && lx.cursor.PeekAt(1) == quote {
				lx.cursor.Bump()
				lx.cursor.Bump()
				return lx.stringToken(start)
			}
		case b == '\n' && !triple:
			sp := lx.cursor.SpanFrom(start)
			lx.report(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.New(token.Invalid, sp, lx.text(sp))
		default:
			lx.cursor.Bump()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	lx.report(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.New(token.Invalid, sp, lx.text(sp))
}

func (lx *Lexer) stringToken(start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.New(token.String, sp, lx.text(sp))
}

func (lx *Lexer) textFrom(start Mark) string {
	return string(lx.file.Content[uint32(start):lx.cursor.Off])
}
