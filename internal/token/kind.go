package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Newline terminates a logical line (bracket depth zero only).
	Newline

	// Ident represents an identifier token.
	Ident
	// Number represents any numeric literal.
	Number
	// String represents a string literal, including prefixes and triple quotes.
	String
	// CommentTok represents a '#' comment token. Named to leave Comment for
	// the attached-comment struct.
	CommentTok

	// KwFalse represents the 'False' keyword.
	KwFalse // False
	// KwNone represents the 'None' keyword.
	KwNone // None
	// KwTrue represents the 'True' keyword.
	KwTrue // True
	// KwAnd represents the 'and' keyword.
	KwAnd // and
	// KwAs represents the 'as' keyword.
	KwAs // as
	// KwAssert represents the 'assert' keyword.
	KwAssert // assert
	// KwAsync represents the 'async' keyword.
	KwAsync // async
	// KwAwait represents the 'await' keyword.
	KwAwait // await
	// KwBreak represents the 'break' keyword.
	KwBreak // break
	// KwClass represents the 'class' keyword.
	KwClass // class
	// KwContinue represents the 'continue' keyword.
	KwContinue // continue
	// KwDef represents the 'def' keyword.
	KwDef // def
	// KwDel represents the 'del' keyword.
	KwDel // del
	// KwElif represents the 'elif' keyword.
	KwElif // elif
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwExcept represents the 'except' keyword.
	KwExcept // except
	// KwFinally represents the 'finally' keyword.
	KwFinally // finally
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwFrom represents the 'from' keyword.
	KwFrom // from
	// KwGlobal represents the 'global' keyword.
	KwGlobal // global
	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwImport represents the 'import' keyword.
	KwImport // import
	// KwIn represents the 'in' keyword.
	KwIn // in
	// KwIs represents the 'is' keyword.
	KwIs // is
	// KwLambda represents the 'lambda' keyword.
	KwLambda // lambda
	// KwNonlocal represents the 'nonlocal' keyword.
	KwNonlocal // nonlocal
	// KwNot represents the 'not' keyword.
	KwNot // not
	// KwOr represents the 'or' keyword.
	KwOr // or
	// KwPass represents the 'pass' keyword.
	KwPass // pass
	// KwRaise represents the 'raise' keyword.
	KwRaise // raise
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwTry represents the 'try' keyword.
	KwTry // try
	// KwWhile represents the 'while' keyword.
	KwWhile // while
	// KwWith represents the 'with' keyword.
	KwWith // with
	// KwYield represents the 'yield' keyword.
	KwYield // yield

	// LParen represents '('.
	LParen // (
	// RParen represents ')'.
	RParen // )
	// LBracket represents '['.
	LBracket // [
	// RBracket represents ']'.
	RBracket // ]
	// LBrace represents '{'.
	LBrace // {
	// RBrace represents '}'.
	RBrace // }
	// Comma represents ','.
	Comma // ,
	// Colon represents ':'.
	Colon // :
	// Semicolon represents ';'.
	Semicolon // ;
	// Dot represents '.'.
	Dot // .
	// Ellipsis represents '...'.
	Ellipsis // ...
	// At represents '@' (decorator or matrix multiply).
	At // @
	// Arrow represents '->'.
	Arrow // ->

	// Assign represents '='.
	Assign // =
	// Plus represents '+'.
	Plus // +
	// Minus represents '-'.
	Minus // -
	// Star represents '*'.
	Star // *
	// StarStar represents '**'.
	StarStar // **
	// Slash represents '/'.
	Slash // /
	// SlashSlash represents '//'.
	SlashSlash // //
	// Percent represents '%'.
	Percent // %
	// Amp represents '&'.
	Amp // &
	// Pipe represents '|'.
	Pipe // |
	// Caret represents '^'.
	Caret // ^
	// Tilde represents '~'.
	Tilde // ~
	// Shl represents '<<'.
	Shl // <<
	// Shr represents '>>'.
	Shr // >>
	// Lt represents '<'.
	Lt // <
	// Gt represents '>'.
	Gt // >
	// LtEq represents '<='.
	LtEq // <=
	// GtEq represents '>='.
	GtEq // >=
	// EqEq represents '=='.
	EqEq // ==
	// BangEq represents '!='.
	BangEq // !=
	// PlusAssign represents '+='.
	PlusAssign // +=
	// MinusAssign represents '-='.
	MinusAssign // -=
	// StarAssign represents '*='.
	StarAssign // *=
	// SlashAssign represents '/='.
	SlashAssign // /=
	// SlashSlashAssign represents '//='.
	SlashSlashAssign // //=
	// PercentAssign represents '%='.
	PercentAssign // %=
	// AmpAssign represents '&='.
	AmpAssign // &=
	// PipeAssign represents '|='.
	PipeAssign // |=
	// CaretAssign represents '^='.
	CaretAssign // ^=
	// ShlAssign represents '<<='.
	ShlAssign // <<=
	// ShrAssign represents '>>='.
	ShrAssign // >>=
	// StarStarAssign represents '**='.
	StarStarAssign // **=
	// AtAssign represents '@='.
	AtAssign // @=
	// ColonAssign represents ':=' (walrus).
	ColonAssign // :=

	kindCount
)

var kindNames = [...]string{
	Invalid:          "Invalid",
	EOF:              "EOF",
	Newline:          "Newline",
	Ident:            "Ident",
	Number:           "Number",
	String:           "String",
	CommentTok:       "Comment",
	KwFalse:          "False",
	KwNone:           "None",
	KwTrue:           "True",
	KwAnd:            "and",
	KwAs:             "as",
	KwAssert:         "assert",
	KwAsync:          "async",
	KwAwait:          "await",
	KwBreak:          "break",
	KwClass:          "class",
	KwContinue:       "continue",
	KwDef:            "def",
	KwDel:            "del",
	KwElif:           "elif",
	KwElse:           "else",
	KwExcept:         "except",
	KwFinally:        "finally",
	KwFor:            "for",
	KwFrom:           "from",
	KwGlobal:         "global",
	KwIf:             "if",
	KwImport:         "import",
	KwIn:             "in",
	KwIs:             "is",
	KwLambda:         "lambda",
	KwNonlocal:       "nonlocal",
	KwNot:            "not",
	KwOr:             "or",
	KwPass:           "pass",
	KwRaise:          "raise",
	KwReturn:         "return",
	KwTry:            "try",
	KwWhile:          "while",
	KwWith:           "with",
	KwYield:          "yield",
	LParen:           "(",
	RParen:           ")",
	LBracket:         "[",
	RBracket:         "]",
	LBrace:           "{",
	RBrace:           "}",
	Comma:            ",",
	Colon:            ":",
	Semicolon:        ";",
	Dot:              ".",
	Ellipsis:         "...",
	At:               "@",
	Arrow:            "->",
	Assign:           "=",
	Plus:             "+",
	Minus:            "-",
	Star:             "*",
	StarStar:         "**",
	Slash:            "/",
	SlashSlash:       "//",
	Percent:          "%",
	Amp:              "&",
	Pipe:             "|",
	Caret:            "^",
	Tilde:            "~",
	Shl:              "<<",
	Shr:              ">>",
	Lt:               "<",
	Gt:               ">",
	LtEq:             "<=",
	GtEq:             ">=",
	EqEq:             "==",
	BangEq:           "!=",
	PlusAssign:       "+=",
	MinusAssign:      "-=",
	StarAssign:       "*=",
	SlashAssign:      "/=",
	SlashSlashAssign: "//=",
	PercentAssign:    "%=",
	AmpAssign:        "&=",
	PipeAssign:       "|=",
	CaretAssign:      "^=",
	ShlAssign:        "<<=",
	ShrAssign:        ">>=",
	StarStarAssign:   "**=",
	AtAssign:         "@=",
	ColonAssign:      ":=",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
