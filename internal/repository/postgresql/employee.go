package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rosterly/rostering-backend-go/internal/domain/employee"
	"github.com/rosterly/rostering-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.Repository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	e.id,
	e.company_id,
	e.full_name,
	e.position,
	e.languages,
	e.location_ids,
	e.preferred_day_off,
	e.preferred_template_ids,
	e.preference_weight,
	e.employment_status,
	e.created_at,
	e.updated_at,
	e.deleted_at`

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM employees e
		WHERE e.id = $1 AND e.deleted_at IS NULL
	`, employeeColumns)

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("get employee: %w", err)
	}
	return emp, nil
}

func (r *employeeRepositoryImpl) GetByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM employees e
		WHERE e.id = ANY($1) AND e.deleted_at IS NULL
		ORDER BY e.id ASC
	`, employeeColumns)

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list employees by ids: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

func (r *employeeRepositoryImpl) ActiveCandidatesForLocation(ctx context.Context, locationID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM employees e
		WHERE $1 = ANY(e.location_ids)
		  AND e.employment_status = 'active'
		  AND e.deleted_at IS NULL
		ORDER BY e.id ASC
	`, employeeColumns)

	rows, err := q.Query(ctx, query, locationID)
	if err != nil {
		return nil, fmt.Errorf("list candidates for location: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		emp             employee.Employee
		preferredDayOff *int32
	)
	err := row.Scan(
		&emp.ID,
		&emp.CompanyID,
		&emp.FullName,
		&emp.Position,
		&emp.Languages,
		&emp.LocationIDs,
		&preferredDayOff,
		&emp.PreferredTemplateIDs,
		&emp.PreferenceWeight,
		&emp.EmploymentStatus,
		&emp.CreatedAt,
		&emp.UpdatedAt,
		&emp.DeletedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	if preferredDayOff != nil {
		day := time.Weekday(*preferredDayOff)
		emp.PreferredDayOff = &day
	}
	return emp, nil
}

type availabilityRepositoryImpl struct {
	db *database.DB
}

func NewAvailabilityRepository(db *database.DB) employee.AvailabilityRepository {
	return &availabilityRepositoryImpl{db: db}
}

func (r *availabilityRepositoryImpl) BlockingOverlap(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM employee_availabilities
			WHERE employee_id = $1
			  AND type IN ('vacation', 'sick_leave', 'unavailable')
			  AND $2::date BETWEEN start_date AND end_date
			  AND deleted_at IS NULL
		)
	`

	var blocked bool
	if err := q.QueryRow(ctx, query, employeeID, date).Scan(&blocked); err != nil {
		return false, fmt.Errorf("check blocking availability: %w", err)
	}
	return blocked, nil
}
