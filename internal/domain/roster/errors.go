package roster

import (
	"errors"
	"fmt"
)

var (
	ErrShiftTemplateNotFound   = errors.New("shift template not found")
	ErrShiftInstanceNotFound   = errors.New("shift instance not found")
	ErrShiftAssignmentNotFound = errors.New("shift assignment not found")
)

// Rule codes carried by ValidationError so callers can react to a specific
// rejected constraint without string matching.
const (
	RuleAlreadyAssigned      = "already_assigned"
	RuleNotMember            = "not_a_member"
	RuleBlockingAvailability = "blocking_availability"
	RulePositionMismatch     = "position_mismatch"
	RuleOverlappingShift     = "overlapping_shift"
	RulePositionCapacity     = "position_capacity"
)

// ValidationError is a business-rule rejection. The auto-scheduler treats it
// as "this candidate is ineligible" and moves on; every other caller surfaces
// it verbatim.
type ValidationError struct {
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(rule, format string, args ...any) *ValidationError {
	return &ValidationError{Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
