package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterly/rostering-backend-go/internal/domain/calendar"
	"github.com/rosterly/rostering-backend-go/internal/repository/memory"
)

func date(day int) time.Time {
	return time.Date(2026, time.April, day, 0, 0, 0, 0, time.UTC)
}

func TestMonthRules(t *testing.T) {
	store := memory.NewStore()
	store.PutBlackoutDay(calendar.BlackoutDay{
		ID: "blk-1", LocationID: "loc-1", Date: date(6), Reason: "renovation",
	})
	store.PutBlackoutDay(calendar.BlackoutDay{
		// Other location, must not leak in.
		ID: "blk-2", LocationID: "loc-2", Date: date(7),
	})
	store.PutSpecialHours(calendar.SpecialOpeningHours{
		ID: "sp-1", LocationID: "loc-1", Date: date(10),
		OpenTime:  time.Date(0, 1, 1, 11, 0, 0, 0, time.UTC),
		CloseTime: time.Date(0, 1, 1, 16, 0, 0, 0, time.UTC),
	})
	store.PutSpecialHours(calendar.SpecialOpeningHours{
		// Outside the month, must be filtered.
		ID: "sp-2", LocationID: "loc-1", Date: time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC),
	})

	resolver := NewResolver(memory.NewCalendarRepository(store))
	rules, err := resolver.MonthRules(context.Background(), "loc-1", date(1))
	require.NoError(t, err)

	assert.True(t, rules.IsBlackout(date(6)))
	assert.False(t, rules.IsBlackout(date(7)))

	sh, ok := rules.SpecialHoursFor(date(10))
	require.True(t, ok)
	assert.Equal(t, 11, sh.OpenTime.Hour())
	assert.Equal(t, 16, sh.CloseTime.Hour())

	_, ok = rules.SpecialHoursFor(time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)
}

func TestMonthRules_EmptyMonth(t *testing.T) {
	store := memory.NewStore()
	resolver := NewResolver(memory.NewCalendarRepository(store))

	rules, err := resolver.MonthRules(context.Background(), "loc-1", date(1))
	require.NoError(t, err)
	assert.False(t, rules.IsBlackout(date(15)))
	_, ok := rules.SpecialHoursFor(date(15))
	assert.False(t, ok)
}
