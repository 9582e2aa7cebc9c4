package assignment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rosterly/rostering-backend-go/internal/domain/employee"
	"github.com/rosterly/rostering-backend-go/internal/domain/notification"
	"github.com/rosterly/rostering-backend-go/internal/domain/roster"
	"github.com/rosterly/rostering-backend-go/internal/pkg/database"
	"github.com/rosterly/rostering-backend-go/internal/service/requirement"
)

// Engine is the atomic assign/unassign operation: it runs the validator,
// persists the change, re-evaluates completeness, and publishes an event.
type Engine struct {
	tx             database.Transactor
	instanceRepo   roster.InstanceRepository
	templateRepo   roster.TemplateRepository
	assignmentRepo roster.AssignmentRepository
	employeeRepo   employee.Repository
	validator      *Validator
	completeness   *requirement.Service
	sink           notification.Sink
	logger         *slog.Logger
}

func NewEngine(
	tx database.Transactor,
	instanceRepo roster.InstanceRepository,
	templateRepo roster.TemplateRepository,
	assignmentRepo roster.AssignmentRepository,
	employeeRepo employee.Repository,
	validator *Validator,
	completeness *requirement.Service,
	sink notification.Sink,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		tx:             tx,
		instanceRepo:   instanceRepo,
		templateRepo:   templateRepo,
		assignmentRepo: assignmentRepo,
		employeeRepo:   employeeRepo,
		validator:      validator,
		completeness:   completeness,
		sink:           sink,
		logger:         logger,
	}
}

// Assign places one employee on one shift instance. Validation failures are
// returned verbatim; warnings are advisory and never block.
func (e *Engine) Assign(ctx context.Context, instanceID, employeeID string) (roster.ShiftAssignment, []string, error) {
	instance, err := e.instanceRepo.GetByID(ctx, instanceID)
	if err != nil {
		return roster.ShiftAssignment{}, nil, err
	}
	tpl, err := e.templateRepo.GetByID(ctx, instance.TemplateID)
	if err != nil {
		return roster.ShiftAssignment{}, nil, err
	}
	emp, err := e.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return roster.ShiftAssignment{}, nil, err
	}

	var created roster.ShiftAssignment
	err = e.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := e.validator.Validate(ctx, instance, tpl, emp); err != nil {
			return err
		}

		created, err = e.assignmentRepo.Create(ctx, roster.ShiftAssignment{
			ID:              uuid.Must(uuid.NewV7()).String(),
			ShiftInstanceID: instance.ID,
			EmployeeID:      emp.ID,
		})
		if err != nil {
			return fmt.Errorf("create assignment: %w", err)
		}

		if _, err := e.completeness.Evaluate(ctx, instance.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return roster.ShiftAssignment{}, nil, err
	}

	e.publish(ctx, notification.EventAssignmentCreated, instance, emp.ID)

	return created, Warnings(emp, tpl, instance, instance.Date), nil
}

// Unassign soft-deletes the active assignment for (instance, employee) and
// re-evaluates completeness.
func (e *Engine) Unassign(ctx context.Context, instanceID, employeeID string) error {
	instance, err := e.instanceRepo.GetByID(ctx, instanceID)
	if err != nil {
		return err
	}

	err = e.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := e.assignmentRepo.SoftDelete(ctx, instance.ID, employeeID); err != nil {
			return err
		}
		if _, err := e.completeness.Evaluate(ctx, instance.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.publish(ctx, notification.EventAssignmentRemoved, instance, employeeID)
	return nil
}

// UnassignEmployeeInRange vacates every active assignment the employee holds
// on instances dated within [from, to]. The availability-management layer
// calls this when a blocking record lands on already-assigned dates.
func (e *Engine) UnassignEmployeeInRange(ctx context.Context, employeeID string, from, to time.Time) (int, error) {
	if _, err := e.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return 0, err
	}

	assignments, err := e.assignmentRepo.ActiveForEmployeeInRange(ctx, employeeID, roster.DateOf(from), roster.DateOf(to))
	if err != nil {
		return 0, fmt.Errorf("load assignments in range: %w", err)
	}
	if len(assignments) == 0 {
		return 0, nil
	}

	instances := make([]roster.ShiftInstance, 0, len(assignments))
	err = e.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, a := range assignments {
			instance, err := e.instanceRepo.GetByID(ctx, a.ShiftInstanceID)
			if err != nil {
				return err
			}
			if err := e.assignmentRepo.SoftDelete(ctx, a.ShiftInstanceID, employeeID); err != nil {
				return err
			}
			if _, err := e.completeness.Evaluate(ctx, a.ShiftInstanceID); err != nil {
				return err
			}
			instances = append(instances, instance)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, instance := range instances {
		e.publish(ctx, notification.EventAssignmentRemoved, instance, employeeID)
	}
	return len(assignments), nil
}

// publish is fire-and-forget: a sink failure is logged, never surfaced.
func (e *Engine) publish(ctx context.Context, eventType notification.EventType, instance roster.ShiftInstance, employeeID string) {
	event := notification.Event{
		Type:            eventType,
		CompanyID:       instance.CompanyID,
		LocationID:      instance.LocationID,
		ShiftInstanceID: instance.ID,
		EmployeeID:      employeeID,
		Date:            roster.DateKey(instance.Date),
		OccurredAt:      time.Now().UTC(),
	}
	if err := e.sink.Publish(ctx, event); err != nil {
		e.logger.Error("failed to publish assignment event",
			slog.String("type", string(eventType)),
			slog.String("shift_instance_id", instance.ID),
			slog.String("employee_id", employeeID),
			slog.String("error", err.Error()))
	}
}
