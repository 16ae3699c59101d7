package token

// Subtype refines a token's kind with the semantic role the classifier pass
// assigned to it. The layout engine switches exhaustively on this tag when
// assigning split penalties and spacing.
type Subtype uint8

const (
	// SubtypeNone marks a token with no special role.
	SubtypeNone Subtype = iota
	// SubtypeUnaryOp marks +, -, ~, * or ** used as a prefix operator.
	SubtypeUnaryOp
	// SubtypeBinaryOp marks an operator used in infix position.
	SubtypeBinaryOp
	// SubtypeDocstring marks a string literal that is a suite's docstring.
	SubtypeDocstring
	// SubtypeDictColon marks the ':' between a dict key and its value.
	SubtypeDictColon
	// SubtypeSliceColon marks the ':' inside a subscript.
	SubtypeSliceColon
	// SubtypeLambdaColon marks the ':' that opens a lambda body.
	SubtypeLambdaColon
	// SubtypeDefaultAssign marks '=' in keyword arguments and parameter
	// defaults, which takes no surrounding spaces.
	SubtypeDefaultAssign
	// SubtypeDecorator marks the '@' that introduces a decorator line.
	SubtypeDecorator
	// SubtypeSubscriptOpen marks a '[' that subscripts the preceding value.
	SubtypeSubscriptOpen
	// SubtypeCallOpen marks a '(' that calls the preceding value.
	SubtypeCallOpen

	subtypeCount
)

var subtypeNames = [...]string{
	SubtypeNone:          "none",
	SubtypeUnaryOp:       "unary",
	SubtypeBinaryOp:      "binary",
	SubtypeDocstring:     "docstring",
	SubtypeDictColon:     "dict-colon",
	SubtypeSliceColon:    "slice-colon",
	SubtypeLambdaColon:   "lambda-colon",
	SubtypeDefaultAssign: "default-assign",
	SubtypeDecorator:     "decorator",
	SubtypeSubscriptOpen: "subscript-open",
	SubtypeCallOpen:      "call-open",
}

func (s Subtype) String() string {
	if int(s) < len(subtypeNames) {
		return subtypeNames[s]
	}
	return "Subtype(?)"
}
