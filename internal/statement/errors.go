package statement

import "fmt"

// InvalidStatementError is returned when text does not conform to the
// probe statement grammar. It carries the offending input for
// diagnostics.
type InvalidStatementError struct {
	Input  string
	Reason string
}

func (e *InvalidStatementError) Error() string {
	return fmt.Sprintf("invalid probe statement %q: %s", e.Input, e.Reason)
}

// ExpandError is returned when a feature count required for glob
// expansion was not supplied.
type ExpandError struct {
	Side int // 1 or 2
}

func (e *ExpandError) Error() string {
	return fmt.Sprintf("number of features must be specified when feature number is globbed (side %d)", e.Side)
}
