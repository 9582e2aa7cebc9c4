package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rosterly/rostering-backend-go/internal/domain/location"
	"github.com/rosterly/rostering-backend-go/internal/pkg/database"
)

type locationRepositoryImpl struct {
	db *database.DB
}

func NewLocationRepository(db *database.DB) location.Repository {
	return &locationRepositoryImpl{db: db}
}

func (r *locationRepositoryImpl) GetByID(ctx context.Context, id string) (location.Location, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, timezone, open_days,
		       created_at, updated_at, deleted_at
		FROM locations
		WHERE id = $1 AND deleted_at IS NULL
	`

	loc, err := scanLocation(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return location.Location{}, location.ErrLocationNotFound
		}
		return location.Location{}, fmt.Errorf("get location: %w", err)
	}
	return loc, nil
}

func (r *locationRepositoryImpl) ListActive(ctx context.Context) ([]location.Location, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, timezone, open_days,
		       created_at, updated_at, deleted_at
		FROM locations
		WHERE deleted_at IS NULL
		ORDER BY id ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var locations []location.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

func scanLocation(row pgx.Row) (location.Location, error) {
	var (
		loc      location.Location
		openDays []int32
	)
	err := row.Scan(
		&loc.ID,
		&loc.CompanyID,
		&loc.Name,
		&loc.Timezone,
		&openDays,
		&loc.CreatedAt,
		&loc.UpdatedAt,
		&loc.DeletedAt,
	)
	if err != nil {
		return location.Location{}, err
	}
	for _, d := range openDays {
		loc.OpenDays = append(loc.OpenDays, time.Weekday(d))
	}
	return loc, nil
}
