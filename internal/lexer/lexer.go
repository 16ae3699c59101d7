package lexer

import (
	"pyfmt/internal/diag"
	"pyfmt/internal/source"
	"pyfmt/internal/token"
)

type Options struct {
	// Reporter may be nil; errors are then dropped but lexing continues.
	Reporter diag.Reporter
}

// Lexer turns Python source into a flat token stream. Newline tokens are
// emitted only at bracket depth zero and never after a backslash
// continuation, so one Newline terminates exactly one logical line.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options

	depth   int  // open bracket depth
	started bool // a statement token was seen since the last Newline
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Tokenize scans the whole file.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

// Next returns the next token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	for {
		if lx.cursor.EOF() {
			if lx.started {
				lx.started = false
				return token.New(token.Newline, lx.emptySpan(), "")
			}
			return token.New(token.EOF, lx.emptySpan(), "")
		}

		ch := lx.cursor.Peek()
		switch {
		case ch == ' ' || ch == '\t':
			lx.cursor.Bump()
			continue

		case ch == '\\' && lx.cursor.PeekAt(1) == '\n':
			// Explicit continuation: swallow the backslash and the newline.
			lx.cursor.Bump()
			lx.cursor.Bump()
			continue

		case ch == '\n':
			start := lx.cursor.Mark()
			lx.cursor.Bump()
			if lx.depth > 0 || !lx.started {
				// Implicit continuation inside brackets; blank lines
				// between statements are recovered from spans later.
				continue
			}
			lx.started = false
			return token.New(token.Newline, lx.cursor.SpanFrom(start), "\n")

		case ch == '#':
			return lx.scanComment()

		case isIdentStartByte(ch) || ch >= 0x80:
			return lx.mark(lx.scanIdentOrKeyword())

		case isDec(ch):
			return lx.mark(lx.scanNumber())

		case ch == '.' && isDec(lx.cursor.PeekAt(1)):
			return lx.mark(lx.scanNumber())

		case ch == '\'' || ch == '"':
			return lx.mark(lx.scanString(lx.cursor.Mark()))

		default:
			return lx.mark(lx.scanOperatorOrPunct())
		}
	}
}

// mark records that a statement token was produced and maintains bracket
// depth so Newline suppression works.
func (lx *Lexer) mark(tok token.Token) token.Token {
	lx.started = true
	switch tok.Kind {
	case token.LParen, token.LBracket, token.LBrace:
		lx.depth++
	case token.RParen, token.RBracket, token.RBrace:
		if lx.depth == 0 {
			lx.report(diag.LexUnbalancedBracket, tok.Span, "unbalanced closing bracket")
		} else {
			lx.depth--
		}
	}
	return tok
}

func (lx *Lexer) scanComment() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	// A comment counts as line content only if code preceded it; a bare
	// comment line must not produce a Newline of its own statement.
	return token.New(token.CommentTok, sp, lx.text(sp))
}

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isIdentContinueByte(b) {
			lx.cursor.Bump()
			continue
		}
		if b >= 0x80 {
			lx.bumpRune()
			continue
		}
		break
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)

	// String prefixes: r'', b"", rb'...', f"...", etc.
	if (lx.cursor.Peek() == '\'' || lx.cursor.Peek() == '"') && isStringPrefix(text) {
		return lx.scanString(start)
	}

	return token.New(token.LookupKeyword(text), sp, text)
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg)
	}
}
