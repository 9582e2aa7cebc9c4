package requirement

import (
	"context"
	"fmt"

	"github.com/rosterly/rostering-backend-go/internal/domain/employee"
	"github.com/rosterly/rostering-backend-go/internal/domain/roster"
)

// Service derives staffing coverage for a shift instance: per-position and
// per-language status projections, and the instance's isComplete flag.
type Service struct {
	instanceRepo   roster.InstanceRepository
	templateRepo   roster.TemplateRepository
	assignmentRepo roster.AssignmentRepository
	employeeRepo   employee.Repository
}

func NewService(
	instanceRepo roster.InstanceRepository,
	templateRepo roster.TemplateRepository,
	assignmentRepo roster.AssignmentRepository,
	employeeRepo employee.Repository,
) *Service {
	return &Service{
		instanceRepo:   instanceRepo,
		templateRepo:   templateRepo,
		assignmentRepo: assignmentRepo,
		employeeRepo:   employeeRepo,
	}
}

// Evaluate recomputes and stores the instance's isComplete flag: true iff
// the template has position requirements and every one of them is met by
// active assignments. A template without position requirements is never
// complete, which keeps mis-saved templates visible.
func (s *Service) Evaluate(ctx context.Context, instanceID string) (bool, error) {
	instance, err := s.instanceRepo.GetByID(ctx, instanceID)
	if err != nil {
		return false, err
	}
	tpl, err := s.templateRepo.GetByID(ctx, instance.TemplateID)
	if err != nil {
		return false, err
	}

	complete := false
	if len(tpl.PositionRequirements) > 0 {
		statuses, err := s.positionStatuses(ctx, instance, tpl)
		if err != nil {
			return false, err
		}
		complete = true
		for _, st := range statuses {
			if !st.Satisfied() {
				complete = false
				break
			}
		}
	}

	if complete != instance.IsComplete {
		if err := s.instanceRepo.SetComplete(ctx, instance.ID, complete); err != nil {
			return false, fmt.Errorf("store completeness flag: %w", err)
		}
	}
	return complete, nil
}

// PositionStatus returns the per-position coverage of the instance.
func (s *Service) PositionStatus(ctx context.Context, instanceID string) ([]roster.PositionStatus, error) {
	instance, err := s.instanceRepo.GetByID(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	tpl, err := s.templateRepo.GetByID(ctx, instance.TemplateID)
	if err != nil {
		return nil, err
	}
	return s.positionStatuses(ctx, instance, tpl)
}

// LanguageStatus returns the per-language coverage of the instance: distinct
// active assignees speaking each required language.
func (s *Service) LanguageStatus(ctx context.Context, instanceID string) ([]roster.LanguageStatus, error) {
	instance, err := s.instanceRepo.GetByID(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	tpl, err := s.templateRepo.GetByID(ctx, instance.TemplateID)
	if err != nil {
		return nil, err
	}

	statuses := make([]roster.LanguageStatus, 0, len(tpl.LanguageRequirements))

	assignees, err := s.activeAssignees(ctx, instance.ID)
	if err != nil {
		return nil, err
	}
	if len(assignees) == 0 {
		// Nothing assigned yet: report zeros without touching language
		// membership.
		for _, lr := range tpl.LanguageRequirements {
			statuses = append(statuses, roster.LanguageStatus{
				Language:      lr.Language,
				RequiredCount: lr.RequiredCount,
			})
		}
		return statuses, nil
	}

	for _, lr := range tpl.LanguageRequirements {
		actual := 0
		for _, emp := range assignees {
			if emp.Speaks(lr.Language) {
				actual++
			}
		}
		statuses = append(statuses, roster.LanguageStatus{
			Language:      lr.Language,
			RequiredCount: lr.RequiredCount,
			ActualCount:   actual,
		})
	}
	return statuses, nil
}

func (s *Service) positionStatuses(ctx context.Context, instance roster.ShiftInstance, tpl roster.ShiftTemplate) ([]roster.PositionStatus, error) {
	assignees, err := s.activeAssignees(ctx, instance.ID)
	if err != nil {
		return nil, err
	}

	statuses := make([]roster.PositionStatus, 0, len(tpl.PositionRequirements))
	for _, pr := range tpl.PositionRequirements {
		assigned := 0
		for _, emp := range assignees {
			if emp.Position == pr.Position {
				assigned++
			}
		}
		statuses = append(statuses, roster.PositionStatus{
			Position:      pr.Position,
			RequiredCount: pr.RequiredCount,
			IdealCount:    pr.IdealCount,
			AssignedCount: assigned,
		})
	}
	return statuses, nil
}

func (s *Service) activeAssignees(ctx context.Context, instanceID string) ([]employee.Employee, error) {
	assignments, err := s.assignmentRepo.ActiveForInstance(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("load active assignments: %w", err)
	}
	if len(assignments) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.EmployeeID)
	}
	employees, err := s.employeeRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load assigned employees: %w", err)
	}
	return employees, nil
}
