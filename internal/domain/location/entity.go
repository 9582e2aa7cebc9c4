package location

import "time"

type Location struct {
	ID        string
	CompanyID string
	Name      string
	Timezone  string
	// OpenDays lists the weekdays the location operates on. An empty slice
	// means the location is open every day.
	OpenDays []time.Weekday

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

func (l Location) IsDeleted() bool {
	return l.DeletedAt != nil
}

// OpenOn reports whether the location operates on the given weekday.
func (l Location) OpenOn(day time.Weekday) bool {
	if len(l.OpenDays) == 0 {
		return true
	}
	for _, d := range l.OpenDays {
		if d == day {
			return true
		}
	}
	return false
}
