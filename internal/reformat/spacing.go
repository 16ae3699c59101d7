package reformat

import (
	"pyfmt/internal/token"
)

// spaceBetween returns the number of spaces (0 or 1) separating two adjacent
// tokens that stay on one physical line. The search and the serializer share
// this function, so column arithmetic and emitted text always agree.
func spaceBetween(prev, cur *token.Token) int {
	switch {
	case prev.IsOpenBracket():
		return 0
	case cur.IsCloseBracket():
		return 0

	case cur.Kind == token.Comma, cur.Kind == token.Semicolon, cur.Kind == token.Colon:
		return 0
	case prev.Kind == token.Colon && prev.Subtype == token.SubtypeSliceColon:
		return 0

	case cur.Kind == token.Dot, prev.Kind == token.Dot:
		// Attribute and relative-import dots glue to their operands, but a
		// keyword across the dot keeps its space: "from . import x".
		if keywordBesideDot(prev, cur) {
			return 1
		}
		return 0

	case cur.Subtype == token.SubtypeCallOpen, cur.Subtype == token.SubtypeSubscriptOpen:
		return 0

	case prev.Subtype == token.SubtypeUnaryOp:
		return 0

	case cur.Subtype == token.SubtypeDefaultAssign, prev.Subtype == token.SubtypeDefaultAssign:
		return 0

	case prev.Subtype == token.SubtypeDecorator:
		return 0

	default:
		return 1
	}
}

// keywordBesideDot reports a non-literal keyword on the far side of a dot
// boundary. True/False/None stay tight (True.real is attribute access);
// from/import do not.
func keywordBesideDot(prev, cur *token.Token) bool {
	if cur.Kind == token.Dot {
		return prev.IsKeyword() && !prev.IsLiteral()
	}
	return cur.IsKeyword() && !cur.IsLiteral()
}
