package response

import (
	"errors"
	"net/http"

	"github.com/rosterly/rostering-backend-go/internal/domain/employee"
	"github.com/rosterly/rostering-backend-go/internal/domain/location"
	"github.com/rosterly/rostering-backend-go/internal/domain/roster"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var ruleErr *roster.ValidationError
	if errors.As(err, &ruleErr) {
		RuleViolation(w, ruleErr.Rule, ruleErr.Message)
		return
	}

	switch {
	case errors.Is(err, roster.ErrShiftTemplateNotFound):
		NotFound(w, "Shift template not found")
	case errors.Is(err, roster.ErrShiftInstanceNotFound):
		NotFound(w, "Shift instance not found")
	case errors.Is(err, roster.ErrShiftAssignmentNotFound):
		NotFound(w, "Shift assignment not found")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, location.ErrLocationNotFound):
		NotFound(w, "Location not found")

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
