package calendar

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rosterly/rostering-backend-go/internal/domain/calendar"
	"github.com/rosterly/rostering-backend-go/internal/domain/roster"
)

// Rules holds the resolved calendar exceptions for one location and month.
type Rules struct {
	blackouts    map[string]calendar.BlackoutDay
	specialHours map[string]calendar.SpecialOpeningHours
}

// IsBlackout reports whether the date is blacked out.
func (r Rules) IsBlackout(date time.Time) bool {
	_, ok := r.blackouts[roster.DateKey(date)]
	return ok
}

// SpecialHoursFor returns the special-hours override for the date, if any.
func (r Rules) SpecialHoursFor(date time.Time) (calendar.SpecialOpeningHours, bool) {
	sh, ok := r.specialHours[roster.DateKey(date)]
	return sh, ok
}

// SpecialHoursDates lists every date carrying an override, ascending. An
// override marks the location open on that date even when its weekday is
// normally closed.
func (r Rules) SpecialHoursDates() []time.Time {
	dates := make([]time.Time, 0, len(r.specialHours))
	for _, sh := range r.specialHours {
		dates = append(dates, sh.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Resolver reads a location's calendar exceptions and presents them as
// per-date lookups.
type Resolver struct {
	calendarRepo calendar.Repository
}

func NewResolver(calendarRepo calendar.Repository) *Resolver {
	return &Resolver{calendarRepo: calendarRepo}
}

// MonthRules resolves the blackout dates and special-hours overrides for the
// month containing month.
func (r *Resolver) MonthRules(ctx context.Context, locationID string, month time.Time) (Rules, error) {
	from, to := roster.MonthRange(month)

	blackouts, err := r.calendarRepo.BlackoutDays(ctx, locationID, from, to)
	if err != nil {
		return Rules{}, fmt.Errorf("load blackout days: %w", err)
	}
	specials, err := r.calendarRepo.SpecialHours(ctx, locationID, from, to)
	if err != nil {
		return Rules{}, fmt.Errorf("load special opening hours: %w", err)
	}

	rules := Rules{
		blackouts:    make(map[string]calendar.BlackoutDay, len(blackouts)),
		specialHours: make(map[string]calendar.SpecialOpeningHours, len(specials)),
	}
	for _, b := range blackouts {
		rules.blackouts[roster.DateKey(b.Date)] = b
	}
	for _, s := range specials {
		rules.specialHours[roster.DateKey(s.Date)] = s
	}
	return rules, nil
}
