package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/rosterly/rostering-backend-go/internal/domain/calendar"
	"github.com/rosterly/rostering-backend-go/internal/domain/roster"
	"github.com/rosterly/rostering-backend-go/internal/pkg/database"
)

type calendarRepositoryImpl struct {
	db *database.DB
}

func NewCalendarRepository(db *database.DB) calendar.Repository {
	return &calendarRepositoryImpl{db: db}
}

func (r *calendarRepositoryImpl) BlackoutDays(ctx context.Context, locationID string, from, to time.Time) ([]calendar.BlackoutDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, location_id, date, reason, created_at, updated_at, deleted_at
		FROM blackout_days
		WHERE location_id = $1
		  AND date BETWEEN $2 AND $3
		  AND deleted_at IS NULL
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, locationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list blackout days: %w", err)
	}
	defer rows.Close()

	var blackouts []calendar.BlackoutDay
	for rows.Next() {
		var b calendar.BlackoutDay
		if err := rows.Scan(&b.ID, &b.LocationID, &b.Date, &b.Reason,
			&b.CreatedAt, &b.UpdatedAt, &b.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan blackout day: %w", err)
		}
		b.Date = roster.DateOf(b.Date)
		blackouts = append(blackouts, b)
	}
	return blackouts, rows.Err()
}

func (r *calendarRepositoryImpl) SpecialHours(ctx context.Context, locationID string, from, to time.Time) ([]calendar.SpecialOpeningHours, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, location_id, date, open_time, close_time,
		       created_at, updated_at, deleted_at
		FROM special_opening_hours
		WHERE location_id = $1
		  AND date BETWEEN $2 AND $3
		  AND deleted_at IS NULL
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, locationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list special opening hours: %w", err)
	}
	defer rows.Close()

	var specials []calendar.SpecialOpeningHours
	for rows.Next() {
		var s calendar.SpecialOpeningHours
		if err := rows.Scan(&s.ID, &s.LocationID, &s.Date, &s.OpenTime, &s.CloseTime,
			&s.CreatedAt, &s.UpdatedAt, &s.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan special opening hours: %w", err)
		}
		s.Date = roster.DateOf(s.Date)
		specials = append(specials, s)
	}
	return specials, rows.Err()
}
