// Package memory holds in-memory implementations of the repository
// interfaces. They back the unit tests and the demo CLI; the production
// wiring uses the postgresql package.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/rosterly/rostering-backend-go/internal/domain/calendar"
	"github.com/rosterly/rostering-backend-go/internal/domain/employee"
	"github.com/rosterly/rostering-backend-go/internal/domain/location"
	"github.com/rosterly/rostering-backend-go/internal/domain/roster"
)

type Store struct {
	mu sync.RWMutex

	locations      map[string]location.Location
	templates      map[string]roster.ShiftTemplate
	instances      map[string]roster.ShiftInstance
	assignments    map[string]roster.ShiftAssignment
	employees      map[string]employee.Employee
	availabilities map[string]employee.Availability
	blackouts      map[string]calendar.BlackoutDay
	specialHours   map[string]calendar.SpecialOpeningHours
}

func NewStore() *Store {
	return &Store{
		locations:      make(map[string]location.Location),
		templates:      make(map[string]roster.ShiftTemplate),
		instances:      make(map[string]roster.ShiftInstance),
		assignments:    make(map[string]roster.ShiftAssignment),
		employees:      make(map[string]employee.Employee),
		availabilities: make(map[string]employee.Availability),
		blackouts:      make(map[string]calendar.BlackoutDay),
		specialHours:   make(map[string]calendar.SpecialOpeningHours),
	}
}

// WithinTransaction satisfies database.Transactor. The store has no real
// transactions; tests accept the pass-through.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *Store) PutLocation(l location.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[l.ID] = l
}

func (s *Store) PutTemplate(t roster.ShiftTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[t.ID] = t
}

func (s *Store) PutInstance(i roster.ShiftInstance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances[i.ID] = i
}

func (s *Store) PutAssignment(a roster.ShiftAssignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[a.ID] = a
}

func (s *Store) PutEmployee(e employee.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[e.ID] = e
}

func (s *Store) PutAvailability(a employee.Availability) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.availabilities[a.ID] = a
}

func (s *Store) PutBlackoutDay(b calendar.BlackoutDay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blackouts[b.ID] = b
}

func (s *Store) PutSpecialHours(sp calendar.SpecialOpeningHours) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.specialHours[sp.ID] = sp
}

func now() time.Time {
	return time.Now().UTC()
}
