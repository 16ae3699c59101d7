package lexer

import (
	"pyfmt/internal/token"
)

// scanNumber consumes a numeric literal: decimal and float forms with
// optional exponent and imaginary suffix, plus 0b/0o/0x bases. Underscore
// digit separators are accepted wherever digits are.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	if lx.cursor.Peek() == '0' {
		switch lx.cursor.PeekAt(1) {
		case 'b', 'B':
			lx.cursor.Bump()
			lx.cursor.Bump()
			lx.bumpDigits(func(b byte) bool { return b == '0' || b == '1' || b == '_' })
			return lx.numberToken(start)
		case 'o', 'O':
			lx.cursor.Bump()
			lx.cursor.Bump()
			lx.bumpDigits(func(b byte) bool { return (b >= '0' && b <= '7') || b == '_' })
			return lx.numberToken(start)
		case 'x', 'X':
			lx.cursor.Bump()
			lx.cursor.Bump()
			lx.bumpDigits(func(b byte) bool { return isHex(b) || b == '_' })
			return lx.numberToken(start)
		}
	}

	lx.bumpDigits(func(b byte) bool { return isDec(b) || b == '_' })

	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		lx.cursor.Bump()
		lx.bumpDigits(func(b byte) bool { return isDec(b) || b == '_' })
	} else if lx.cursor.Peek() == '.' && !isIdentStartByte(lx.cursor.PeekAt(1)) && lx.cursor.PeekAt(1) != '.' {
		// Trailing-dot float: "1."
		lx.cursor.Bump()
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		next := lx.cursor.PeekAt(1)
		if isDec(next) || ((next == '+' || next == '-') && isDec(lx.cursor.PeekAt(2))) {
			lx.cursor.Bump()
			if next == '+' || next == '-' {
				lx.cursor.Bump()
			}
			lx.bumpDigits(func(b byte) bool { return isDec(b) || b == '_' })
		}
	}

	if b := lx.cursor.Peek(); b == 'j' || b == 'J' {
		lx.cursor.Bump()
	}

	return lx.numberToken(start)
}

func (lx *Lexer) bumpDigits(ok func(byte) bool) {
	for !lx.cursor.EOF() && ok(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) numberToken(start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.New(token.Number, sp, lx.text(sp))
}
