package penalty

// Relative split-penalty weights. The absolute values are tuning constants
// calibrated against the golden corpus in the reformat tests; only their
// ordering is load-bearing:
//
//	Unbreakable >> BeforeUnary, SubscriptHead > AfterOpenBracket >
//	AroundAssign > ChainedCall, TrailingComma, ClosingColon >>
//	Comprehension > BinaryOp > Element
const (
	// Unbreakable marks boundaries that must never split unless the
	// alternative is even worse (an over-long unsplittable literal wins
	// against it via the overflow penalty).
	Unbreakable uint32 = 1_000_000

	// BeforeUnary discourages splitting between a unary operator's
	// context and the operator.
	BeforeUnary uint32 = 150_000

	// SubscriptHead discourages splitting between '[' and the first
	// subscript element.
	SubscriptHead uint32 = 150_000

	// AfterOpenBracket is the cost of a hanging split right after an
	// opening bracket.
	AfterOpenBracket uint32 = 40_000

	// AroundAssign discourages splitting just after '=' in an
	// assignment statement.
	AroundAssign uint32 = 30_000

	// ChainedCall discourages splitting an attribute/call chain at '.'.
	ChainedCall uint32 = 20_000

	// TrailingComma discourages splitting before a comma.
	TrailingComma uint32 = 20_000

	// ClosingColon discourages splitting before a dict-key or lambda ':'.
	ClosingColon uint32 = 20_000

	// BeforeClose is the cost of putting a closing bracket on its own line.
	BeforeClose uint32 = 3_000

	// Comprehension is the cost of splitting before 'for'/'if' inside a
	// comprehension.
	Comprehension uint32 = 500

	// BinaryOp is the cost of splitting before a binary operator.
	BinaryOp uint32 = 300

	// Element is the cost of splitting between bracketed elements, right
	// after a comma.
	Element uint32 = 30

	// Default applies to boundaries no other rule claims.
	Default uint32 = 5_000
)
