package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rosterly/rostering-backend-go/internal/domain/roster"
	"github.com/rosterly/rostering-backend-go/internal/pkg/database"
)

type shiftInstanceRepositoryImpl struct {
	db *database.DB
}

func NewShiftInstanceRepository(db *database.DB) roster.InstanceRepository {
	return &shiftInstanceRepositoryImpl{db: db}
}

const shiftInstanceColumns = `
	si.id,
	si.company_id,
	si.location_id,
	si.shift_template_id,
	si.date,
	si.start_time,
	si.end_time,
	si.required_employees,
	si.ideal_employees,
	si.is_complete,
	si.created_at,
	si.updated_at,
	si.deleted_at`

func (r *shiftInstanceRepositoryImpl) Create(ctx context.Context, instance roster.ShiftInstance) (roster.ShiftInstance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_instances (
			id, company_id, location_id, shift_template_id,
			date, start_time, end_time,
			required_employees, ideal_employees, is_complete,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		instance.ID,
		instance.CompanyID,
		instance.LocationID,
		instance.TemplateID,
		instance.Date,
		instance.StartTime,
		instance.EndTime,
		instance.RequiredEmployees,
		instance.IdealEmployees,
	).Scan(&instance.CreatedAt, &instance.UpdatedAt)
	if err != nil {
		return roster.ShiftInstance{}, fmt.Errorf("insert shift instance: %w", err)
	}
	return instance, nil
}

func (r *shiftInstanceRepositoryImpl) GetByID(ctx context.Context, id string) (roster.ShiftInstance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM shift_instances si
		WHERE si.id = $1 AND si.deleted_at IS NULL
	`, shiftInstanceColumns)

	instance, err := scanShiftInstance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return roster.ShiftInstance{}, roster.ErrShiftInstanceNotFound
		}
		return roster.ShiftInstance{}, fmt.Errorf("get shift instance: %w", err)
	}
	return instance, nil
}

func (r *shiftInstanceRepositoryImpl) ActiveForLocationDate(ctx context.Context, locationID string, date time.Time) ([]roster.ShiftInstance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM shift_instances si
		WHERE si.location_id = $1
		  AND si.date = $2
		  AND si.deleted_at IS NULL
		ORDER BY si.start_time ASC, si.id ASC
	`, shiftInstanceColumns)

	rows, err := q.Query(ctx, query, locationID, roster.DateOf(date))
	if err != nil {
		return nil, fmt.Errorf("list shift instances: %w", err)
	}
	defer rows.Close()

	var instances []roster.ShiftInstance
	for rows.Next() {
		instance, err := scanShiftInstance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shift instance: %w", err)
		}
		instances = append(instances, instance)
	}
	return instances, rows.Err()
}

func (r *shiftInstanceRepositoryImpl) SoftDeleteForLocationDateRange(ctx context.Context, locationID string, from, to time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_instances
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE location_id = $1
		  AND date BETWEEN $2 AND $3
		  AND deleted_at IS NULL
	`

	if _, err := q.Exec(ctx, query, locationID, from, to); err != nil {
		return fmt.Errorf("soft delete shift instances: %w", err)
	}
	return nil
}

func (r *shiftInstanceRepositoryImpl) SetComplete(ctx context.Context, id string, isComplete bool) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_instances
		SET is_complete = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, id, isComplete)
	if err != nil {
		return fmt.Errorf("update completeness flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return roster.ErrShiftInstanceNotFound
	}
	return nil
}

func scanShiftInstance(row pgx.Row) (roster.ShiftInstance, error) {
	var instance roster.ShiftInstance
	err := row.Scan(
		&instance.ID,
		&instance.CompanyID,
		&instance.LocationID,
		&instance.TemplateID,
		&instance.Date,
		&instance.StartTime,
		&instance.EndTime,
		&instance.RequiredEmployees,
		&instance.IdealEmployees,
		&instance.IsComplete,
		&instance.CreatedAt,
		&instance.UpdatedAt,
		&instance.DeletedAt,
	)
	if err != nil {
		return roster.ShiftInstance{}, err
	}
	instance.Date = roster.DateOf(instance.Date)
	return instance, nil
}
