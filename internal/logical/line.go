package logical

import (
	"pyfmt/internal/token"
)

// LineKind classifies a logical line for the blank-line policy.
type LineKind uint8

const (
	// KindPlain is any ordinary statement.
	KindPlain LineKind = iota
	// KindClassDef is a 'class' header line.
	KindClassDef
	// KindFuncDef is a 'def' (or 'async def') header line.
	KindFuncDef
	// KindDecorator is a '@name' line.
	KindDecorator
	// KindImport is an 'import' or 'from ... import' statement.
	KindImport
	// KindComment is a standalone comment block with no statement attached.
	KindComment
	// KindDocstring is a string-expression statement opening a suite.
	KindDocstring
)

func (k LineKind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindClassDef:
		return "class"
	case KindFuncDef:
		return "def"
	case KindDecorator:
		return "decorator"
	case KindImport:
		return "import"
	case KindComment:
		return "comment"
	case KindDocstring:
		return "docstring"
	}
	return "LineKind(?)"
}

// Line is one statement as a flat token sequence, the atomic unit the layout
// engine works on. Lines are built once, annotated by the classifier passes,
// and never restructured afterwards.
type Line struct {
	Tokens []token.Token
	// Depth is the statement nesting level, 0 at module scope. It drives
	// indentation and is independent of line length.
	Depth int
	// Leading holds own-line comments that sit directly above the
	// statement with no blank line in between.
	Leading []token.Comment
	Kind    LineKind

	// DocOwner is the kind of the header this docstring opens
	// (KindClassDef, KindFuncDef, or KindPlain for a module docstring).
	// Only meaningful when Kind is KindDocstring.
	DocOwner LineKind

	// BlanksBefore counts the blank lines that separated this line from
	// its predecessor in the input.
	BlanksBefore int
}

// IsDef reports whether the line opens a class or function suite.
func (l *Line) IsDef() bool {
	return l.Kind == KindClassDef || l.Kind == KindFuncDef
}

// Last returns the final token, or nil for an empty line.
func (l *Line) Last() *token.Token {
	if len(l.Tokens) == 0 {
		return nil
	}
	return &l.Tokens[len(l.Tokens)-1]
}
