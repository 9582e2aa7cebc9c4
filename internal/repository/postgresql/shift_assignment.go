package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/rosterly/rostering-backend-go/internal/domain/roster"
	"github.com/rosterly/rostering-backend-go/internal/pkg/database"
)

type shiftAssignmentRepositoryImpl struct {
	db *database.DB
}

func NewShiftAssignmentRepository(db *database.DB) roster.AssignmentRepository {
	return &shiftAssignmentRepositoryImpl{db: db}
}

func (r *shiftAssignmentRepositoryImpl) Create(ctx context.Context, assignment roster.ShiftAssignment) (roster.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_assignments (
			id, shift_instance_id, employee_id, is_confirmed,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		assignment.ID,
		assignment.ShiftInstanceID,
		assignment.EmployeeID,
		assignment.IsConfirmed,
	).Scan(&assignment.CreatedAt, &assignment.UpdatedAt)
	if err != nil {
		return roster.ShiftAssignment{}, fmt.Errorf("insert shift assignment: %w", err)
	}
	return assignment, nil
}

func (r *shiftAssignmentRepositoryImpl) ActiveForInstance(ctx context.Context, instanceID string) ([]roster.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, shift_instance_id, employee_id, is_confirmed,
		       created_at, updated_at, deleted_at
		FROM shift_assignments
		WHERE shift_instance_id = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC, id ASC
	`

	rows, err := q.Query(ctx, query, instanceID)
	if err != nil {
		return nil, fmt.Errorf("list active assignments: %w", err)
	}
	defer rows.Close()

	var assignments []roster.ShiftAssignment
	for rows.Next() {
		var a roster.ShiftAssignment
		if err := rows.Scan(&a.ID, &a.ShiftInstanceID, &a.EmployeeID, &a.IsConfirmed,
			&a.CreatedAt, &a.UpdatedAt, &a.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan shift assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (r *shiftAssignmentRepositoryImpl) ActiveInstancesForEmployeeOnDate(ctx context.Context, employeeID string, date time.Time) ([]roster.ShiftInstance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM shift_assignments sa
		JOIN shift_instances si ON si.id = sa.shift_instance_id
		WHERE sa.employee_id = $1
		  AND sa.deleted_at IS NULL
		  AND si.date = $2
		  AND si.deleted_at IS NULL
		ORDER BY si.start_time ASC, si.id ASC
	`, shiftInstanceColumns)

	rows, err := q.Query(ctx, query, employeeID, roster.DateOf(date))
	if err != nil {
		return nil, fmt.Errorf("list same-day instances: %w", err)
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

func (r *shiftAssignmentRepositoryImpl) AssignedEmployeeIDsForInstances(ctx context.Context, instanceIDs []string) ([]string, error) {
	if len(instanceIDs) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT employee_id
		FROM shift_assignments
		WHERE shift_instance_id = ANY($1)
		  AND deleted_at IS NULL
		ORDER BY employee_id ASC
	`

	rows, err := q.Query(ctx, query, instanceIDs)
	if err != nil {
		return nil, fmt.Errorf("list assigned employee ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan employee id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *shiftAssignmentRepositoryImpl) ActiveForEmployeeInRange(ctx context.Context, employeeID string, from, to time.Time) ([]roster.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT sa.id, sa.shift_instance_id, sa.employee_id, sa.is_confirmed,
		       sa.created_at, sa.updated_at, sa.deleted_at
		FROM shift_assignments sa
		JOIN shift_instances si ON si.id = sa.shift_instance_id
		WHERE sa.employee_id = $1
		  AND sa.deleted_at IS NULL
		  AND si.deleted_at IS NULL
		  AND si.date BETWEEN $2 AND $3
		ORDER BY si.date ASC, sa.id ASC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list assignments in range: %w", err)
	}
	defer rows.Close()

	var assignments []roster.ShiftAssignment
	for rows.Next() {
		var a roster.ShiftAssignment
		if err := rows.Scan(&a.ID, &a.ShiftInstanceID, &a.EmployeeID, &a.IsConfirmed,
			&a.CreatedAt, &a.UpdatedAt, &a.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan shift assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (r *shiftAssignmentRepositoryImpl) SoftDelete(ctx context.Context, instanceID, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_assignments
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE shift_instance_id = $1
		  AND employee_id = $2
		  AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, instanceID, employeeID)
	if err != nil {
		return fmt.Errorf("soft delete shift assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return roster.ErrShiftAssignmentNotFound
	}
	return nil
}
