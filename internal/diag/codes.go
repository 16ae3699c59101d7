package diag

import (
	"fmt"
)

type Code uint16

const (
	// UnknownCode is the catch-all for uncategorized diagnostics.
	UnknownCode Code = 0

	// Lexical
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003
	LexBadIndent          Code = 1004
	LexUnbalancedBracket  Code = 1005

	// Logical-line construction
	LineInfo           Code = 2000
	LineBracketBalance Code = 2001
	LineEmptyStatement Code = 2002

	// Reformatting engine
	FmtInfo              Code = 3000
	FmtContractViolation Code = 3001
	FmtOverflow          Code = 3002
	FmtConfigInvalid     Code = 3003
)

func (c Code) String() string {
	return fmt.Sprintf("PYF%04d", uint16(c))
}
