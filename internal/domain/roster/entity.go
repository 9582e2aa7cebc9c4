package roster

import "time"

// ShiftTemplate is a recurring shift definition for a location. It is never
// tied to a date; the generator expands it into ShiftInstance rows.
type ShiftTemplate struct {
	ID         string
	CompanyID  string
	LocationID string
	Name       string
	StartTime  time.Time // clock time only, date part ignored
	EndTime    time.Time
	Priority   *int // lower schedules first, nil sorts last
	IsActive   bool

	PositionRequirements []PositionRequirement
	LanguageRequirements []LanguageRequirement

	// IdealEmployeesOverride, when set, replaces the per-position ideal sum.
	// Must be >= RequiredEmployees().
	IdealEmployeesOverride *int

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

func (t ShiftTemplate) IsDeleted() bool {
	return t.DeletedAt != nil
}

// RequiredEmployees is the staffing floor: the sum of the required counts of
// every position requirement.
func (t ShiftTemplate) RequiredEmployees() int {
	total := 0
	for _, pr := range t.PositionRequirements {
		total += pr.RequiredCount
	}
	return total
}

// IdealEmployees is the aspirational staffing target used by the later fill
// phases. The override wins when set; otherwise the per-position ideal counts
// are summed, which degrades to RequiredEmployees when no ideal was raised.
func (t ShiftTemplate) IdealEmployees() int {
	if t.IdealEmployeesOverride != nil {
		return *t.IdealEmployeesOverride
	}
	total := 0
	for _, pr := range t.PositionRequirements {
		if pr.IdealCount > pr.RequiredCount {
			total += pr.IdealCount
		} else {
			total += pr.RequiredCount
		}
	}
	return total
}

// RequiresPosition reports whether position appears in the template's
// position requirements.
func (t ShiftTemplate) RequiresPosition(position string) bool {
	for _, pr := range t.PositionRequirements {
		if pr.Position == position {
			return true
		}
	}
	return false
}

// PositionRequirement states how many employees of one position a shift
// needs. IdealCount must be >= RequiredCount.
type PositionRequirement struct {
	Position      string
	RequiredCount int
	IdealCount    int
}

// LanguageRequirement states how many distinct assigned employees must speak
// a language. Coverage is evaluated at the shift level, never as a
// per-assignment gate.
type LanguageRequirement struct {
	Language      string
	RequiredCount int
}

// ShiftInstance is one concrete dated occurrence of a template. Required and
// ideal counts are snapshotted at generation time so later template edits do
// not rewrite history.
type ShiftInstance struct {
	ID         string
	CompanyID  string
	LocationID string
	TemplateID string
	Date       time.Time // midnight UTC
	StartTime  time.Time // clock time only
	EndTime    time.Time

	RequiredEmployees int
	IdealEmployees    int
	IsComplete        bool

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

func (i ShiftInstance) IsDeleted() bool {
	return i.DeletedAt != nil
}

// Window returns the instance's concrete start and end on its date.
func (i ShiftInstance) Window() (start, end time.Time) {
	return CombineDateTime(i.Date, i.StartTime), CombineDateTime(i.Date, i.EndTime)
}

// Overlaps reports whether the two instances' time windows intersect on the
// same date, comparing half-open intervals.
func (i ShiftInstance) Overlaps(other ShiftInstance) bool {
	if !i.Date.Equal(other.Date) {
		return false
	}
	aStart, aEnd := i.Window()
	bStart, bEnd := other.Window()
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ShiftAssignment links one employee to one shift instance. Assignments are
// soft-deleted rather than removed so history and completeness recomputation
// stay consistent; at most one active assignment may exist per
// (employee, instance) pair.
type ShiftAssignment struct {
	ID              string
	ShiftInstanceID string
	EmployeeID      string
	IsConfirmed     bool

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

func (a ShiftAssignment) IsDeleted() bool {
	return a.DeletedAt != nil
}

// DateOf normalizes t to midnight UTC, the canonical representation for
// roster dates.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey formats a date for use as a map key.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// MonthRange returns the first and last date of the month containing t.
func MonthRange(t time.Time) (first, last time.Time) {
	first = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last = first.AddDate(0, 1, -1)
	return first, last
}

// CombineDateTime applies the clock part of clock to the date part of date.
func CombineDateTime(date, clock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC)
}
