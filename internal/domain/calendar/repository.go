package calendar

import (
	"context"
	"time"
)

type Repository interface {
	// BlackoutDays returns the active blackout days for the location with
	// dates in [from, to].
	BlackoutDays(ctx context.Context, locationID string, from, to time.Time) ([]BlackoutDay, error)
	// SpecialHours returns the active special opening hours for the location
	// with dates in [from, to].
	SpecialHours(ctx context.Context, locationID string, from, to time.Time) ([]SpecialOpeningHours, error)
}
