package service

import "fmt"

// MalformedDealInputsError reports a structurally invalid or non-finite input
// field. Resolution stops at the first one found.
type MalformedDealInputsError struct {
	Field  string
	Reason string
}

func (e *MalformedDealInputsError) Error() string {
	return fmt.Sprintf("malformed deal inputs: %s %s", e.Field, e.Reason)
}

// InvalidTermError reports a loan term that is not a positive whole number of
// months.
type InvalidTermError struct {
	Term float64
}

func (e *InvalidTermError) Error() string {
	return fmt.Sprintf("invalid loan term %v: must be a positive whole number of months", e.Term)
}
