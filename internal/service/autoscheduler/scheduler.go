package autoscheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/rosterly/rostering-backend-go/internal/domain/employee"
	"github.com/rosterly/rostering-backend-go/internal/domain/roster"
	"github.com/rosterly/rostering-backend-go/internal/service/assignment"
	"github.com/rosterly/rostering-backend-go/internal/service/requirement"
)

// Service fills the shift instances of a day in three strictly sequential
// phases: required minimums, ideal top-up, and a language-diversifying final
// spread. Ordering (template priority, candidate tier, employee id) is part
// of the observable contract: it decides who wins a contested slot.
//
// A validation failure from the engine only disqualifies that candidate for
// that slot; it never aborts the run. System failures propagate.
type Service struct {
	instanceRepo     roster.InstanceRepository
	templateRepo     roster.TemplateRepository
	assignmentRepo   roster.AssignmentRepository
	employeeRepo     employee.Repository
	availabilityRepo employee.AvailabilityRepository
	requirements     *requirement.Service
	engine           *assignment.Engine
	logger           *slog.Logger
}

func NewService(
	instanceRepo roster.InstanceRepository,
	templateRepo roster.TemplateRepository,
	assignmentRepo roster.AssignmentRepository,
	employeeRepo employee.Repository,
	availabilityRepo employee.AvailabilityRepository,
	requirements *requirement.Service,
	engine *assignment.Engine,
	logger *slog.Logger,
) *Service {
	return &Service{
		instanceRepo:     instanceRepo,
		templateRepo:     templateRepo,
		assignmentRepo:   assignmentRepo,
		employeeRepo:     employeeRepo,
		availabilityRepo: availabilityRepo,
		requirements:     requirements,
		engine:           engine,
		logger:           logger,
	}
}

// ScheduleMonth runs ScheduleDay over every date of the month containing
// month. Days are independent; a caller aborting the batch should do so
// between days, which is where the context is checked.
func (s *Service) ScheduleMonth(ctx context.Context, locationID string, month time.Time) error {
	from, to := roster.MonthRange(month)
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.ScheduleDay(ctx, locationID, date); err != nil {
			return err
		}
	}
	return nil
}

// ScheduleDay fills every non-deleted shift instance for (location, date).
// It returns nothing on completion; occupancy is inspected afterwards via
// the requirement status projections.
func (s *Service) ScheduleDay(ctx context.Context, locationID string, date time.Time) error {
	date = roster.DateOf(date)

	instances, err := s.instanceRepo.ActiveForLocationDate(ctx, locationID, date)
	if err != nil {
		return fmt.Errorf("load instances: %w", err)
	}
	if len(instances) == 0 {
		return nil
	}

	templates, err := s.templatesFor(ctx, instances)
	if err != nil {
		return err
	}
	sortInstances(instances, templates)

	candidates, err := s.eligibleCandidates(ctx, locationID, date)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return nil
	}

	day, err := s.newDayState(ctx, instances)
	if err != nil {
		return err
	}

	// Phase 1: fill every instance to its required minimum, in priority
	// order.
	for _, instance := range instances {
		if err := s.fill(ctx, instance, instance.RequiredEmployees, candidates, day, false); err != nil {
			return err
		}
	}

	// Phase 2: top up to the ideal target, again in priority order.
	for _, instance := range instances {
		if err := s.fill(ctx, instance, instance.IdealEmployees, candidates, day, false); err != nil {
			return err
		}
	}

	// Phase 3: spread the remaining candidates one placement at a time
	// across the instances still below ideal, preferring candidates that
	// close a language gap, instead of exhausting one instance's ideal
	// before the next gets a turn.
	for {
		placed := false
		for _, instance := range instances {
			if day.assignedCount[instance.ID] >= instance.IdealEmployees {
				continue
			}
			ok, err := s.placeOne(ctx, instance, candidates, day, true)
			if err != nil {
				return err
			}
			if ok {
				placed = true
			}
		}
		if !placed {
			break
		}
	}

	return nil
}

// dayState tracks which employees already hold a shift on the day and how
// many active assignments each instance has. It is maintained incrementally
// instead of re-queried before every placement; holding one shift per day is
// a scheduler-level constraint, stricter than the validator's overlap check.
type dayState struct {
	assignedToday map[string]struct{}
	assignedCount map[string]int
}

func (s *Service) newDayState(ctx context.Context, instances []roster.ShiftInstance) (*dayState, error) {
	day := &dayState{
		assignedToday: make(map[string]struct{}),
		assignedCount: make(map[string]int, len(instances)),
	}

	ids := make([]string, 0, len(instances))
	for _, instance := range instances {
		ids = append(ids, instance.ID)
	}
	employeeIDs, err := s.assignmentRepo.AssignedEmployeeIDsForInstances(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load already-assigned employees: %w", err)
	}
	for _, id := range employeeIDs {
		day.assignedToday[id] = struct{}{}
	}

	for _, instance := range instances {
		assignments, err := s.assignmentRepo.ActiveForInstance(ctx, instance.ID)
		if err != nil {
			return nil, fmt.Errorf("load active assignments: %w", err)
		}
		day.assignedCount[instance.ID] = len(assignments)
	}
	return day, nil
}

// fill places candidates on the instance until it reaches target or no
// candidate passes validation.
func (s *Service) fill(ctx context.Context, instance roster.ShiftInstance, target int, candidates []employee.Employee, day *dayState, diversify bool) error {
	for day.assignedCount[instance.ID] < target {
		placed, err := s.placeOne(ctx, instance, candidates, day, diversify)
		if err != nil {
			return err
		}
		if !placed {
			return nil
		}
	}
	return nil
}

// placeOne attempts a single placement on the instance, trying candidates in
// tier order and skipping anyone already holding a shift today.
func (s *Service) placeOne(ctx context.Context, instance roster.ShiftInstance, candidates []employee.Employee, day *dayState, diversify bool) (bool, error) {
	free := make([]employee.Employee, 0, len(candidates))
	for _, cand := range candidates {
		if _, taken := day.assignedToday[cand.ID]; taken {
			continue
		}
		free = append(free, cand)
	}
	if len(free) == 0 {
		return false, nil
	}

	var missing map[string]struct{}
	if diversify {
		var err error
		missing, err = s.missingLanguages(ctx, instance)
		if err != nil {
			return false, err
		}
	}

	sort.SliceStable(free, func(i, j int) bool {
		if len(missing) > 0 {
			ci, cj := closesLanguageGap(free[i], missing), closesLanguageGap(free[j], missing)
			if ci != cj {
				return ci
			}
		}
		ti := assignment.Tier(free[i], instance, instance.Date)
		tj := assignment.Tier(free[j], instance, instance.Date)
		if ti != tj {
			return ti < tj
		}
		return free[i].ID < free[j].ID
	})

	for _, cand := range free {
		_, _, err := s.engine.Assign(ctx, instance.ID, cand.ID)
		if err != nil {
			if roster.IsValidationError(err) {
				s.logger.Debug("candidate rejected",
					slog.String("shift_instance_id", instance.ID),
					slog.String("employee_id", cand.ID),
					slog.String("reason", err.Error()))
				continue
			}
			return false, err
		}
		day.assignedToday[cand.ID] = struct{}{}
		day.assignedCount[instance.ID]++
		return true, nil
	}
	return false, nil
}

// eligibleCandidates loads the location's active employees and drops anyone
// with blocking availability on the date.
func (s *Service) eligibleCandidates(ctx context.Context, locationID string, date time.Time) ([]employee.Employee, error) {
	all, err := s.employeeRepo.ActiveCandidatesForLocation(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	eligible := make([]employee.Employee, 0, len(all))
	for _, emp := range all {
		blocked, err := s.availabilityRepo.BlockingOverlap(ctx, emp.ID, date)
		if err != nil {
			return nil, fmt.Errorf("check blocking availability: %w", err)
		}
		if !blocked {
			eligible = append(eligible, emp)
		}
	}
	return eligible, nil
}

func (s *Service) templatesFor(ctx context.Context, instances []roster.ShiftInstance) (map[string]roster.ShiftTemplate, error) {
	templates := make(map[string]roster.ShiftTemplate)
	for _, instance := range instances {
		if _, ok := templates[instance.TemplateID]; ok {
			continue
		}
		tpl, err := s.templateRepo.GetByID(ctx, instance.TemplateID)
		if err != nil {
			return nil, err
		}
		templates[instance.TemplateID] = tpl
	}
	return templates, nil
}

func (s *Service) missingLanguages(ctx context.Context, instance roster.ShiftInstance) (map[string]struct{}, error) {
	statuses, err := s.requirements.LanguageStatus(ctx, instance.ID)
	if err != nil {
		return nil, err
	}
	missing := make(map[string]struct{})
	for _, st := range statuses {
		if !st.Satisfied() {
			missing[st.Language] = struct{}{}
		}
	}
	return missing, nil
}

func closesLanguageGap(emp employee.Employee, missing map[string]struct{}) bool {
	for lang := range missing {
		if emp.Speaks(lang) {
			return true
		}
	}
	return false
}

// sortInstances orders instances by template priority (nil priority last)
// and then by start time.
func sortInstances(instances []roster.ShiftInstance, templates map[string]roster.ShiftTemplate) {
	sort.SliceStable(instances, func(i, j int) bool {
		pi := templates[instances[i].TemplateID].Priority
		pj := templates[instances[j].TemplateID].Priority
		switch {
		case pi != nil && pj != nil && *pi != *pj:
			return *pi < *pj
		case pi == nil && pj != nil:
			return false
		case pi != nil && pj == nil:
			return true
		}
		si := roster.CombineDateTime(instances[i].Date, instances[i].StartTime)
		sj := roster.CombineDateTime(instances[j].Date, instances[j].StartTime)
		return si.Before(sj)
	})
}
