package employee

import "time"

type Employee struct {
	ID        string
	CompanyID string
	FullName  string
	// Position is the single position the employee works, matched against a
	// template's position requirements.
	Position  string
	Languages []string
	// LocationIDs lists the locations the employee is authorized to work at.
	LocationIDs []string

	// Scheduling preferences. These never block an assignment; they only
	// shape candidate ordering and advisory warnings.
	PreferredDayOff      *time.Weekday
	PreferredTemplateIDs []string
	PreferenceWeight     int

	EmploymentStatus EmploymentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

func (e Employee) IsDeleted() bool {
	return e.DeletedAt != nil
}

func (e Employee) IsActive() bool {
	return e.EmploymentStatus == EmploymentStatusActive && !e.IsDeleted()
}

// WorksAt reports whether the employee is authorized for the location.
func (e Employee) WorksAt(locationID string) bool {
	for _, id := range e.LocationIDs {
		if id == locationID {
			return true
		}
	}
	return false
}

// Speaks reports whether the employee holds the language.
func (e Employee) Speaks(language string) bool {
	for _, l := range e.Languages {
		if l == language {
			return true
		}
	}
	return false
}

// PrefersTemplate reports whether the template is in the employee's
// preferred set.
func (e Employee) PrefersTemplate(templateID string) bool {
	for _, id := range e.PreferredTemplateIDs {
		if id == templateID {
			return true
		}
	}
	return false
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)
