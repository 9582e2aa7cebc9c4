package employee

import (
	"context"
	"time"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByIDs(ctx context.Context, ids []string) ([]Employee, error)
	// ActiveCandidatesForLocation returns the active employees authorized for
	// the location, preference data included, ordered by id for deterministic
	// tie-breaking.
	ActiveCandidatesForLocation(ctx context.Context, locationID string) ([]Employee, error)
}

type AvailabilityRepository interface {
	// BlockingOverlap reports whether an active, blocking availability record
	// covers the employee on the given date.
	BlockingOverlap(ctx context.Context, employeeID string, date time.Time) (bool, error)
}
