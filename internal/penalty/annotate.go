package penalty

import (
	"pyfmt/internal/logical"
	"pyfmt/internal/token"
)

// Annotate runs the classifier and split-penalty passes over every logical
// line. After it returns, each token carries a subtype, a bracket delta, a
// concrete split penalty, and its break flags; the layout engine treats all
// of them as immutable.
func Annotate(lines []logical.Line) {
	for i := range lines {
		classifySubtypes(&lines[i])
		assignPenalties(&lines[i])
	}
}

func assignPenalties(line *logical.Line) {
	toks := line.Tokens
	depth := 0
	for i := range toks {
		t := &toks[i]

		switch {
		case t.IsOpenBracket():
			t.BracketDelta = 1
		case t.IsCloseBracket():
			t.BracketDelta = -1
		default:
			t.BracketDelta = 0
		}

		if i == 0 {
			depth += int(t.BracketDelta)
			continue
		}
		prev := &toks[i-1]

		t.MustBreakBefore = prev.Trailing != nil
		if !t.MustBreakBefore {
			t.MustNotBreakBefore = forbidden(prev, t)
		}
		t.SplitPenalty = boundaryPenalty(prev, t, depth)

		depth += int(t.BracketDelta)
	}
}

// forbidden lists the boundaries that may never split: they would detach a
// prefix operator from its operand, a call from its argument list, or the
// two halves of a keyword-argument assignment.
func forbidden(prev, cur *token.Token) bool {
	switch {
	case prev.Subtype == token.SubtypeUnaryOp:
		return true
	case cur.Subtype == token.SubtypeCallOpen, cur.Subtype == token.SubtypeSubscriptOpen:
		return true
	case prev.Kind == token.Dot:
		return true
	case cur.Subtype == token.SubtypeDefaultAssign, prev.Subtype == token.SubtypeDefaultAssign:
		return true
	case prev.Subtype == token.SubtypeDecorator:
		return true
	case cur.Kind == token.Colon && cur.Subtype == token.SubtypeNone:
		// The ':' closing a statement header stays on the header line.
		return true
	case cur.Kind == token.Assign && cur.Subtype == token.SubtypeBinaryOp:
		return true
	}
	return false
}

func boundaryPenalty(prev, cur *token.Token, depth int) uint32 {
	switch {
	case cur.MustNotBreakBefore:
		return Unbreakable

	case prev.IsOpenBracket():
		if prev.Subtype == token.SubtypeSubscriptOpen {
			return SubscriptHead
		}
		return AfterOpenBracket

	case cur.IsCloseBracket():
		return BeforeClose

	case cur.Kind == token.Comma:
		return TrailingComma

	case cur.Subtype == token.SubtypeUnaryOp:
		return BeforeUnary

	case cur.Kind == token.Dot:
		return ChainedCall

	case cur.Kind == token.Colon:
		// Dict-key, lambda, and slice colons; the statement colon is
		// already unbreakable.
		return ClosingColon

	case prev.Kind == token.Assign && prev.Subtype == token.SubtypeBinaryOp:
		return AroundAssign

	case (cur.Kind == token.KwFor || cur.Kind == token.KwIf) && depth > 0:
		return Comprehension

	case cur.Subtype == token.SubtypeBinaryOp, cur.IsComparison():
		return BinaryOp

	case cur.Kind == token.KwAnd, cur.Kind == token.KwOr, cur.Kind == token.KwIn,
		cur.Kind == token.KwIs, cur.Kind == token.KwNot:
		return BinaryOp

	case prev.Kind == token.Comma:
		return Element

	case prev.Subtype == token.SubtypeDictColon:
		return BinaryOp

	default:
		return Default
	}
}
