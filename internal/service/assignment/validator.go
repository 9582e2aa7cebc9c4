package assignment

import (
	"context"
	"fmt"

	"github.com/rosterly/rostering-backend-go/internal/domain/employee"
	"github.com/rosterly/rostering-backend-go/internal/domain/roster"
)

// Validator is the ordered gate of hard constraints an assignment must pass.
// The order is part of the contract: cheap checks reject before expensive
// ones. Every rejection is a *roster.ValidationError; anything else is a
// system failure.
type Validator struct {
	assignmentRepo   roster.AssignmentRepository
	availabilityRepo employee.AvailabilityRepository
	employeeRepo     employee.Repository
}

func NewValidator(
	assignmentRepo roster.AssignmentRepository,
	availabilityRepo employee.AvailabilityRepository,
	employeeRepo employee.Repository,
) *Validator {
	return &Validator{
		assignmentRepo:   assignmentRepo,
		availabilityRepo: availabilityRepo,
		employeeRepo:     employeeRepo,
	}
}

// Validate runs the full chain and returns the first violation.
func (v *Validator) Validate(ctx context.Context, instance roster.ShiftInstance, tpl roster.ShiftTemplate, emp employee.Employee) error {
	active, err := v.assignmentRepo.ActiveForInstance(ctx, instance.ID)
	if err != nil {
		return fmt.Errorf("load active assignments: %w", err)
	}

	// 1. Not already assigned.
	for _, a := range active {
		if a.EmployeeID == emp.ID {
			return roster.NewValidationError(roster.RuleAlreadyAssigned,
				"employee %s is already assigned to this shift", emp.ID)
		}
	}

	// 2. Company and location membership.
	if emp.CompanyID != instance.CompanyID || !emp.WorksAt(instance.LocationID) {
		return roster.NewValidationError(roster.RuleNotMember,
			"employee %s is not authorized for location %s", emp.ID, instance.LocationID)
	}

	// 3. No blocking availability on the date. Informational records never
	// block.
	blocked, err := v.availabilityRepo.BlockingOverlap(ctx, emp.ID, instance.Date)
	if err != nil {
		return fmt.Errorf("check blocking availability: %w", err)
	}
	if blocked {
		return roster.NewValidationError(roster.RuleBlockingAvailability,
			"employee %s has blocking availability on %s", emp.ID, roster.DateKey(instance.Date))
	}

	// 4. Position match.
	if !tpl.RequiresPosition(emp.Position) {
		return roster.NewValidationError(roster.RulePositionMismatch,
			"position %q is not required by this shift", emp.Position)
	}

	// 5. Language requirements are a shift-level coverage metric, not a
	// per-assignment gate; nothing to reject here.

	// 6. No overlapping shift on the same date (half-open intervals).
	others, err := v.assignmentRepo.ActiveInstancesForEmployeeOnDate(ctx, emp.ID, instance.Date)
	if err != nil {
		return fmt.Errorf("load same-day instances: %w", err)
	}
	for _, other := range others {
		if other.ID == instance.ID {
			continue
		}
		if instance.Overlaps(other) {
			return roster.NewValidationError(roster.RuleOverlappingShift,
				"employee %s already works an overlapping shift on %s", emp.ID, roster.DateKey(instance.Date))
		}
	}

	// 7. Position capacity. The required count is the hard cap; the ideal
	// count is only a scheduler target.
	capacity := 0
	for _, pr := range tpl.PositionRequirements {
		if pr.Position == emp.Position {
			capacity = pr.RequiredCount
			break
		}
	}
	samePosition := 0
	if len(active) > 0 {
		ids := make([]string, 0, len(active))
		for _, a := range active {
			ids = append(ids, a.EmployeeID)
		}
		assignees, err := v.employeeRepo.GetByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("load assigned employees: %w", err)
		}
		for _, assignee := range assignees {
			if assignee.Position == emp.Position {
				samePosition++
			}
		}
	}
	if samePosition >= capacity {
		return roster.NewValidationError(roster.RulePositionCapacity,
			"shift already has %d of %d required %s assignments", samePosition, capacity, emp.Position)
	}

	return nil
}
