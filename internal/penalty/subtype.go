package penalty

import (
	"pyfmt/internal/logical"
	"pyfmt/internal/token"
)

// classifySubtypes tags each token of a line with its semantic role. The
// classification is purely local to the line: logical lines are complete
// statements, so bracket and lambda context never leaks across lines.
func classifySubtypes(line *logical.Line) {
	// Bracket kinds currently open, innermost last.
	var brackets []token.Kind
	// Pending lambda headers per bracket depth; the next ':' at the same
	// depth closes the innermost lambda rather than a dict key or slice.
	lambdas := make(map[int]int)

	toks := line.Tokens
	for i := range toks {
		t := &toks[i]
		var prev *token.Token
		if i > 0 {
			prev = &toks[i-1]
		}

		switch t.Kind {
		case token.Plus, token.Minus, token.Tilde, token.Star, token.StarStar:
			if operandExpected(prev) {
				t.Subtype = token.SubtypeUnaryOp
			} else {
				t.Subtype = token.SubtypeBinaryOp
			}

		case token.LParen:
			if isCallable(prev) {
				t.Subtype = token.SubtypeCallOpen
			}
			brackets = append(brackets, t.Kind)

		case token.LBracket:
			if isCallable(prev) {
				t.Subtype = token.SubtypeSubscriptOpen
			}
			brackets = append(brackets, t.Kind)

		case token.LBrace:
			brackets = append(brackets, t.Kind)

		case token.RParen, token.RBracket, token.RBrace:
			if len(brackets) > 0 {
				brackets = brackets[:len(brackets)-1]
			}

		case token.KwLambda:
			lambdas[len(brackets)]++

		case token.Colon:
			depth := len(brackets)
			switch {
			case lambdas[depth] > 0:
				t.Subtype = token.SubtypeLambdaColon
				lambdas[depth]--
			case depth > 0 && brackets[depth-1] == token.LBracket:
				t.Subtype = token.SubtypeSliceColon
			case depth > 0 && brackets[depth-1] == token.LBrace:
				t.Subtype = token.SubtypeDictColon
			}

		case token.At:
			if i == 0 {
				t.Subtype = token.SubtypeDecorator
			} else {
				t.Subtype = token.SubtypeBinaryOp
			}

		case token.Assign:
			if len(brackets) > 0 && brackets[len(brackets)-1] == token.LParen {
				t.Subtype = token.SubtypeDefaultAssign
			} else {
				t.Subtype = token.SubtypeBinaryOp
			}

		default:
			if t.IsOperator() && t.Kind != token.Assign {
				t.Subtype = token.SubtypeBinaryOp
			}
		}
	}
}

// operandExpected reports whether the position after prev expects the start
// of an operand, which makes +, -, ~, * and ** prefix operators.
func operandExpected(prev *token.Token) bool {
	if prev == nil {
		return true
	}
	switch {
	case prev.IsOpenBracket():
		return true
	case prev.IsOperator():
		return true
	case prev.Kind == token.Comma, prev.Kind == token.Colon, prev.Kind == token.Semicolon:
		return true
	}
	switch prev.Kind {
	case token.KwReturn, token.KwYield, token.KwAssert, token.KwRaise, token.KwDel,
		token.KwAnd, token.KwOr, token.KwNot, token.KwIn, token.KwIs,
		token.KwIf, token.KwElif, token.KwWhile, token.KwElse, token.KwLambda,
		token.KwFrom, token.KwImport, token.KwAwait, token.KwFor:
		return true
	}
	return false
}

// isCallable reports whether prev can be called or subscripted, making a
// following '(' or '[' bind tightly to it.
func isCallable(prev *token.Token) bool {
	if prev == nil {
		return false
	}
	switch prev.Kind {
	case token.Ident, token.RParen, token.RBracket, token.RBrace, token.String,
		token.KwNone, token.KwTrue, token.KwFalse, token.Ellipsis:
		return true
	default:
		return false
	}
}
