package calendar

import "time"

// BlackoutDay closes a location for one date: no shift instances are
// generated for it regardless of templates.
type BlackoutDay struct {
	ID         string
	LocationID string
	Date       time.Time // midnight UTC
	Reason     string

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

func (b BlackoutDay) IsDeleted() bool {
	return b.DeletedAt != nil
}

// SpecialOpeningHours overrides a location's hours for one date. On such a
// date exactly one instance is generated, from the first active template by
// priority, with the override's open/close times. The calendar-management
// layer guarantees a date never carries both a blackout and an override.
type SpecialOpeningHours struct {
	ID         string
	LocationID string
	Date       time.Time // midnight UTC
	OpenTime   time.Time // clock time only
	CloseTime  time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

func (s SpecialOpeningHours) IsDeleted() bool {
	return s.DeletedAt != nil
}
