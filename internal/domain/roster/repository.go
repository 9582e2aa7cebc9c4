package roster

import (
	"context"
	"time"
)

type TemplateRepository interface {
	GetByID(ctx context.Context, id string) (ShiftTemplate, error)
	// ActiveForLocation returns the non-deleted, active templates for a
	// location ordered by (priority asc, nulls last, start time asc).
	ActiveForLocation(ctx context.Context, locationID string) ([]ShiftTemplate, error)
}

type InstanceRepository interface {
	Create(ctx context.Context, instance ShiftInstance) (ShiftInstance, error)
	GetByID(ctx context.Context, id string) (ShiftInstance, error)
	ActiveForLocationDate(ctx context.Context, locationID string, date time.Time) ([]ShiftInstance, error)
	// SoftDeleteForLocationDateRange tombstones every non-deleted instance
	// for the location whose date falls in [from, to].
	SoftDeleteForLocationDateRange(ctx context.Context, locationID string, from, to time.Time) error
	SetComplete(ctx context.Context, id string, isComplete bool) error
}

type AssignmentRepository interface {
	Create(ctx context.Context, assignment ShiftAssignment) (ShiftAssignment, error)
	ActiveForInstance(ctx context.Context, instanceID string) ([]ShiftAssignment, error)
	// ActiveInstancesForEmployeeOnDate returns the non-deleted instances the
	// employee holds an active assignment on for the given date.
	ActiveInstancesForEmployeeOnDate(ctx context.Context, employeeID string, date time.Time) ([]ShiftInstance, error)
	// AssignedEmployeeIDsForInstances returns the ids of employees holding an
	// active assignment on any of the given instances.
	AssignedEmployeeIDsForInstances(ctx context.Context, instanceIDs []string) ([]string, error)
	ActiveForEmployeeInRange(ctx context.Context, employeeID string, from, to time.Time) ([]ShiftAssignment, error)
	// SoftDelete tombstones the active assignment for (instance, employee).
	// Returns ErrShiftAssignmentNotFound when none exists.
	SoftDelete(ctx context.Context, instanceID, employeeID string) error
}
