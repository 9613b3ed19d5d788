package store

import "fmt"

// ContractError describes a caller bug: an accessor used against the wrong
// entry type, a drain without a releaser, a duplicate Insert. The store
// panics with a *ContractError instead of continuing with corrupt state.
type ContractError struct {
	Op     string
	Reason string
}

func (e *ContractError) Error() string {
	return "store: " + e.Op + ": " + e.Reason
}

func violate(op, format string, args ...interface{}) {
	panic(&ContractError{Op: op, Reason: fmt.Sprintf(format, args...)})
}
