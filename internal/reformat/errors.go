package reformat

import (
	"fmt"
)

// ContractError reports a violated upstream invariant: unbalanced brackets,
// conflicting break flags, or similar. It identifies the offending logical
// line and token so the bug can be localized; it is never patched silently.
type ContractError struct {
	LineIndex  int
	TokenIndex int
	Msg        string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("reformat: logical line %d, token %d: %s", e.LineIndex, e.TokenIndex, e.Msg)
}

func contractErr(line, tok int, format string, args ...any) error {
	return &ContractError{
		LineIndex:  line,
		TokenIndex: tok,
		Msg:        fmt.Sprintf(format, args...),
	}
}
