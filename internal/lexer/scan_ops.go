package lexer

import (
	"pyfmt/internal/diag"
	"pyfmt/internal/token"
)

// scanOperatorOrPunct consumes one operator or punctuation token, longest
// match first.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	emit := func(kind token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.New(kind, sp, lx.text(sp))
	}

	switch {
	case lx.try3('*', '*', '='):
		return emit(token.StarStarAssign)
	case lx.try3('/', '/', '='):
		return emit(token.SlashSlashAssign)
	case lx.try3('<', '<', '='):
		return emit(token.ShlAssign)
	case lx.try3('>', '>', '='):
		return emit(token.ShrAssign)
	case lx.try3('.', '.', '.'):
		return emit(token.Ellipsis)
	case lx.try2('*', '*'):
		return emit(token.StarStar)
	case lx.try2('/', '/'):
		return emit(token.SlashSlash)
	case lx.try2('<', '<'):
		return emit(token.Shl)
	case lx.try2('>', '>'):
		return emit(token.Shr)
	case lx.try2('<', '='):
		return emit(token.LtEq)
	case lx.try2('>', '='):
		return emit(token.GtEq)
	case lx.try2('=', '='):
		return emit(token.EqEq)
	case lx.try2('!', '='):
		return emit(token.BangEq)
	case lx.try2('+', '='):
		return emit(token.PlusAssign)
	case lx.try2('-', '='):
		return emit(token.MinusAssign)
	case lx.try2('*', '='):
		return emit(token.StarAssign)
	case lx.try2('/', '='):
		return emit(token.SlashAssign)
	case lx.try2('%', '='):
		return emit(token.PercentAssign)
	case lx.try2('&', '='):
		return emit(token.AmpAssign)
	case lx.try2('|', '='):
		return emit(token.PipeAssign)
	case lx.try2('^', '='):
		return emit(token.CaretAssign)
	case lx.try2('@', '='):
		return emit(token.AtAssign)
	case lx.try2(':', '='):
		return emit(token.ColonAssign)
	case lx.try2('-', '>'):
		return emit(token.Arrow)
	}

	switch lx.cursor.Bump() {
	case '(':
		return emit(token.LParen)
	case ')':
		return emit(token.RParen)
	case '[':
		return emit(token.LBracket)
	case ']':
		return emit(token.RBracket)
	case '{':
		return emit(token.LBrace)
	case '}':
		return emit(token.RBrace)
	case ',':
		return emit(token.Comma)
	case ':':
		return emit(token.Colon)
	case ';':
		return emit(token.Semicolon)
	case '.':
		return emit(token.Dot)
	case '@':
		return emit(token.At)
	case '=':
		return emit(token.Assign)
	case '+':
		return emit(token.Plus)
	case '-':
		return emit(token.Minus)
	case '*':
		return emit(token.Star)
	case '/':
		return emit(token.Slash)
	case '%':
		return emit(token.Percent)
	case '&':
		return emit(token.Amp)
	case '|':
		return emit(token.Pipe)
	case '^':
		return emit(token.Caret)
	case '~':
		return emit(token.Tilde)
	case '<':
		return emit(token.Lt)
	case '>':
		return emit(token.Gt)
	}

	sp := lx.cursor.SpanFrom(start)
	lx.report(diag.LexUnknownChar, sp, "unknown character")
	return token.New(token.Invalid, sp, lx.text(sp))
}
