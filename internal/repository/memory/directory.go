package memory

import (
	"context"
	"sort"
	"time"

	"github.com/rosterly/rostering-backend-go/internal/domain/calendar"
	"github.com/rosterly/rostering-backend-go/internal/domain/employee"
	"github.com/rosterly/rostering-backend-go/internal/domain/location"
	"github.com/rosterly/rostering-backend-go/internal/domain/roster"
)

type LocationRepository struct {
	store *Store
}

func NewLocationRepository(store *Store) *LocationRepository {
	return &LocationRepository{store: store}
}

func (r *LocationRepository) GetByID(ctx context.Context, id string) (location.Location, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	l, ok := r.store.locations[id]
	if !ok || l.IsDeleted() {
		return location.Location{}, location.ErrLocationNotFound
	}
	return l, nil
}

func (r *LocationRepository) ListActive(ctx context.Context) ([]location.Location, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var locations []location.Location
	for _, l := range r.store.locations {
		if !l.IsDeleted() {
			locations = append(locations, l)
		}
	}
	sort.Slice(locations, func(i, j int) bool { return locations[i].ID < locations[j].ID })
	return locations, nil
}

type EmployeeRepository struct {
	store *Store
}

func NewEmployeeRepository(store *Store) *EmployeeRepository {
	return &EmployeeRepository{store: store}
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.employees[id]
	if !ok || e.IsDeleted() {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *EmployeeRepository) GetByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	employees := make([]employee.Employee, 0, len(ids))
	for _, id := range ids {
		if e, ok := r.store.employees[id]; ok && !e.IsDeleted() {
			employees = append(employees, e)
		}
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].ID < employees[j].ID })
	return employees, nil
}

func (r *EmployeeRepository) ActiveCandidatesForLocation(ctx context.Context, locationID string) ([]employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var employees []employee.Employee
	for _, e := range r.store.employees {
		if e.IsActive() && e.WorksAt(locationID) {
			employees = append(employees, e)
		}
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].ID < employees[j].ID })
	return employees, nil
}

type AvailabilityRepository struct {
	store *Store
}

func NewAvailabilityRepository(store *Store) *AvailabilityRepository {
	return &AvailabilityRepository{store: store}
}

func (r *AvailabilityRepository) BlockingOverlap(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	day := roster.DateOf(date)
	for _, a := range r.store.availabilities {
		if a.EmployeeID != employeeID || a.IsDeleted() || !a.Type.Blocking() {
			continue
		}
		if a.Covers(day) {
			return true, nil
		}
	}
	return false, nil
}

type CalendarRepository struct {
	store *Store
}

func NewCalendarRepository(store *Store) *CalendarRepository {
	return &CalendarRepository{store: store}
}

func (r *CalendarRepository) BlackoutDays(ctx context.Context, locationID string, from, to time.Time) ([]calendar.BlackoutDay, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var blackouts []calendar.BlackoutDay
	for _, b := range r.store.blackouts {
		if b.LocationID != locationID || b.IsDeleted() {
			continue
		}
		if b.Date.Before(from) || b.Date.After(to) {
			continue
		}
		blackouts = append(blackouts, b)
	}
	sort.Slice(blackouts, func(i, j int) bool { return blackouts[i].Date.Before(blackouts[j].Date) })
	return blackouts, nil
}

func (r *CalendarRepository) SpecialHours(ctx context.Context, locationID string, from, to time.Time) ([]calendar.SpecialOpeningHours, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var specials []calendar.SpecialOpeningHours
	for _, s := range r.store.specialHours {
		if s.LocationID != locationID || s.IsDeleted() {
			continue
		}
		if s.Date.Before(from) || s.Date.After(to) {
			continue
		}
		specials = append(specials, s)
	}
	sort.Slice(specials, func(i, j int) bool { return specials[i].Date.Before(specials[j].Date) })
	return specials, nil
}
