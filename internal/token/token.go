package token

import (
	"pyfmt/internal/source"
)

// CommentPos tells where a comment sat relative to the code it belongs to.
type CommentPos uint8

const (
	// CommentOwnLine is a comment alone on its physical line.
	CommentOwnLine CommentPos = iota
	// CommentTrailing is a comment at the end of a code line.
	CommentTrailing
)

// Comment is a verbatim comment block. Text is copied byte for byte from the
// source; only the column it starts at may change during reformatting.
type Comment struct {
	Text string
	Pos  CommentPos
	// Col is the 0-based column the comment was found at in the input.
	Col int
}

// Token is one immutable lexical unit of a logical line. The reformatting
// engine never changes a token's text; it only decides the whitespace and
// newlines around it. The annotation fields (break flags, split penalty,
// subtype) are filled by the upstream classifier passes before the engine
// runs and stay fixed afterwards.
type Token struct {
	Kind    Kind
	Subtype Subtype
	Span    source.Span
	Text    string

	// Width is the display width of the token's first physical line.
	// TailWidth is the width of its last physical line; for single-line
	// tokens the two are equal. Lines counts physical lines in Text.
	Width     int
	TailWidth int
	Lines     int

	// MustBreakBefore forces a newline before this token.
	// MustNotBreakBefore forbids one; it also suppresses the space the
	// serializer would otherwise put at a no-break boundary.
	MustBreakBefore    bool
	MustNotBreakBefore bool

	// SplitPenalty is the relative cost of breaking before this token.
	SplitPenalty uint32

	// BracketDelta is +1 for an opening bracket, -1 for a closing one.
	BracketDelta int8

	// Trailing is the end-of-line comment attached to this token, if any.
	Trailing *Comment
}

// New builds a token with its display geometry precomputed.
func New(kind Kind, span source.Span, text string) Token {
	first, tail, lines := measure(text)
	return Token{
		Kind:      kind,
		Span:      span,
		Text:      text,
		Width:     first,
		TailWidth: tail,
		Lines:     lines,
	}
}

// IsKeyword reports whether the token is a Python keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwFalse && t.Kind <= KwYield
}

// IsLiteral reports whether the token is a number, string, or named constant.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Number, String, KwTrue, KwFalse, KwNone:
		return true
	default:
		return false
	}
}

// IsOpenBracket reports whether the token opens a grouping.
func (t Token) IsOpenBracket() bool {
	switch t.Kind {
	case LParen, LBracket, LBrace:
		return true
	default:
		return false
	}
}

// IsCloseBracket reports whether the token closes a grouping.
func (t Token) IsCloseBracket() bool {
	switch t.Kind {
	case RParen, RBracket, RBrace:
		return true
	default:
		return false
	}
}

// IsOperator reports whether the token is an operator or augmented assign.
func (t Token) IsOperator() bool {
	return t.Kind >= Assign && t.Kind <= ColonAssign
}

// IsComparison reports whether the token is a comparison operator.
func (t Token) IsComparison() bool {
	switch t.Kind {
	case Lt, Gt, LtEq, GtEq, EqEq, BangEq:
		return true
	default:
		return false
	}
}

// IsMultiline reports whether the token text spans physical lines.
func (t Token) IsMultiline() bool {
	return t.Lines > 1
}
