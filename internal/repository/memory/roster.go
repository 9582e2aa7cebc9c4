package memory

import (
	"context"
	"sort"
	"time"

	"github.com/rosterly/rostering-backend-go/internal/domain/roster"
)

type TemplateRepository struct {
	store *Store
}

func NewTemplateRepository(store *Store) *TemplateRepository {
	return &TemplateRepository{store: store}
}

func (r *TemplateRepository) GetByID(ctx context.Context, id string) (roster.ShiftTemplate, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	t, ok := r.store.templates[id]
	if !ok || t.IsDeleted() {
		return roster.ShiftTemplate{}, roster.ErrShiftTemplateNotFound
	}
	return t, nil
}

func (r *TemplateRepository) ActiveForLocation(ctx context.Context, locationID string) ([]roster.ShiftTemplate, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var templates []roster.ShiftTemplate
	for _, t := range r.store.templates {
		if t.LocationID == locationID && t.IsActive && !t.IsDeleted() {
			templates = append(templates, t)
		}
	}
	sort.SliceStable(templates, func(i, j int) bool {
		pi, pj := templates[i].Priority, templates[j].Priority
		switch {
		case pi != nil && pj != nil && *pi != *pj:
			return *pi < *pj
		case pi == nil && pj != nil:
			return false
		case pi != nil && pj == nil:
			return true
		}
		si := roster.CombineDateTime(time.Time{}, templates[i].StartTime)
		sj := roster.CombineDateTime(time.Time{}, templates[j].StartTime)
		if !si.Equal(sj) {
			return si.Before(sj)
		}
		return templates[i].ID < templates[j].ID
	})
	return templates, nil
}

type InstanceRepository struct {
	store *Store
}

func NewInstanceRepository(store *Store) *InstanceRepository {
	return &InstanceRepository{store: store}
}

func (r *InstanceRepository) Create(ctx context.Context, instance roster.ShiftInstance) (roster.ShiftInstance, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	instance.CreatedAt = now()
	instance.UpdatedAt = instance.CreatedAt
	r.store.instances[instance.ID] = instance
	return instance, nil
}

func (r *InstanceRepository) GetByID(ctx context.Context, id string) (roster.ShiftInstance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	i, ok := r.store.instances[id]
	if !ok || i.IsDeleted() {
		return roster.ShiftInstance{}, roster.ErrShiftInstanceNotFound
	}
	return i, nil
}

func (r *InstanceRepository) ActiveForLocationDate(ctx context.Context, locationID string, date time.Time) ([]roster.ShiftInstance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var instances []roster.ShiftInstance
	for _, i := range r.store.instances {
		if i.LocationID == locationID && i.Date.Equal(roster.DateOf(date)) && !i.IsDeleted() {
			instances = append(instances, i)
		}
	}
	sort.Slice(instances, func(a, b int) bool { return instances[a].ID < instances[b].ID })
	return instances, nil
}

func (r *InstanceRepository) SoftDeleteForLocationDateRange(ctx context.Context, locationID string, from, to time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	deletedAt := now()
	for id, i := range r.store.instances {
		if i.LocationID != locationID || i.IsDeleted() {
			continue
		}
		if i.Date.Before(from) || i.Date.After(to) {
			continue
		}
		i.DeletedAt = &deletedAt
		i.UpdatedAt = deletedAt
		r.store.instances[id] = i
	}
	return nil
}

func (r *InstanceRepository) SetComplete(ctx context.Context, id string, isComplete bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	i, ok := r.store.instances[id]
	if !ok || i.IsDeleted() {
		return roster.ErrShiftInstanceNotFound
	}
	i.IsComplete = isComplete
	i.UpdatedAt = now()
	r.store.instances[id] = i
	return nil
}

type AssignmentRepository struct {
	store *Store
}

func NewAssignmentRepository(store *Store) *AssignmentRepository {
	return &AssignmentRepository{store: store}
}

func (r *AssignmentRepository) Create(ctx context.Context, assignment roster.ShiftAssignment) (roster.ShiftAssignment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	assignment.CreatedAt = now()
	assignment.UpdatedAt = assignment.CreatedAt
	r.store.assignments[assignment.ID] = assignment
	return assignment, nil
}

func (r *AssignmentRepository) ActiveForInstance(ctx context.Context, instanceID string) ([]roster.ShiftAssignment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var assignments []roster.ShiftAssignment
	for _, a := range r.store.assignments {
		if a.ShiftInstanceID == instanceID && !a.IsDeleted() {
			assignments = append(assignments, a)
		}
	}
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].ID < assignments[j].ID })
	return assignments, nil
}

func (r *AssignmentRepository) ActiveInstancesForEmployeeOnDate(ctx context.Context, employeeID string, date time.Time) ([]roster.ShiftInstance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var instances []roster.ShiftInstance
	for _, a := range r.store.assignments {
		if a.EmployeeID != employeeID || a.IsDeleted() {
			continue
		}
		i, ok := r.store.instances[a.ShiftInstanceID]
		if !ok || i.IsDeleted() || !i.Date.Equal(roster.DateOf(date)) {
			continue
		}
		instances = append(instances, i)
	}
	sort.Slice(instances, func(a, b int) bool { return instances[a].ID < instances[b].ID })
	return instances, nil
}

func (r *AssignmentRepository) AssignedEmployeeIDsForInstances(ctx context.Context, instanceIDs []string) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	wanted := make(map[string]struct{}, len(instanceIDs))
	for _, id := range instanceIDs {
		wanted[id] = struct{}{}
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, a := range r.store.assignments {
		if a.IsDeleted() {
			continue
		}
		if _, ok := wanted[a.ShiftInstanceID]; !ok {
			continue
		}
		if _, dup := seen[a.EmployeeID]; dup {
			continue
		}
		seen[a.EmployeeID] = struct{}{}
		ids = append(ids, a.EmployeeID)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *AssignmentRepository) ActiveForEmployeeInRange(ctx context.Context, employeeID string, from, to time.Time) ([]roster.ShiftAssignment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var assignments []roster.ShiftAssignment
	for _, a := range r.store.assignments {
		if a.EmployeeID != employeeID || a.IsDeleted() {
			continue
		}
		i, ok := r.store.instances[a.ShiftInstanceID]
		if !ok || i.IsDeleted() {
			continue
		}
		if i.Date.Before(from) || i.Date.After(to) {
			continue
		}
		assignments = append(assignments, a)
	}
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].ID < assignments[j].ID })
	return assignments, nil
}

func (r *AssignmentRepository) SoftDelete(ctx context.Context, instanceID, employeeID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, a := range r.store.assignments {
		if a.ShiftInstanceID == instanceID && a.EmployeeID == employeeID && !a.IsDeleted() {
			deletedAt := now()
			a.DeletedAt = &deletedAt
			a.UpdatedAt = deletedAt
			r.store.assignments[id] = a
			return nil
		}
	}
	return roster.ErrShiftAssignmentNotFound
}
