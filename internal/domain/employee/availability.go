package employee

import "time"

// AvailabilityType classifies an availability record. Blocking types exclude
// the employee from scheduling on covered dates; informational types are
// notes only.
type AvailabilityType string

const (
	AvailabilityVacation    AvailabilityType = "vacation"
	AvailabilitySickLeave   AvailabilityType = "sick_leave"
	AvailabilityUnavailable AvailabilityType = "unavailable"
	AvailabilityPreference  AvailabilityType = "preference_note"
)

// Blocking reports whether the type prevents scheduling.
func (t AvailabilityType) Blocking() bool {
	switch t {
	case AvailabilityVacation, AvailabilitySickLeave, AvailabilityUnavailable:
		return true
	default:
		return false
	}
}

// Availability is an employee's availability record over a date range,
// inclusive on both ends.
type Availability struct {
	ID         string
	EmployeeID string
	Type       AvailabilityType
	StartDate  time.Time
	EndDate    time.Time
	Note       string

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

func (a Availability) IsDeleted() bool {
	return a.DeletedAt != nil
}

// Covers reports whether date falls inside the record's range.
func (a Availability) Covers(date time.Time) bool {
	return !date.Before(a.StartDate) && !date.After(a.EndDate)
}
