package generator

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/rosterly/rostering-backend-go/internal/domain/location"
	"github.com/rosterly/rostering-backend-go/internal/domain/roster"
	"github.com/rosterly/rostering-backend-go/internal/pkg/database"
	calendarService "github.com/rosterly/rostering-backend-go/internal/service/calendar"
)

// Service expands active shift templates into dated shift instances for a
// location and month. Regeneration is idempotent: every prior non-deleted
// instance in the month is soft-deleted before the new set is created, all
// inside one transaction.
type Service struct {
	tx           database.Transactor
	locationRepo location.Repository
	templateRepo roster.TemplateRepository
	instanceRepo roster.InstanceRepository
	calendar     *calendarService.Resolver
}

func NewService(
	tx database.Transactor,
	locationRepo location.Repository,
	templateRepo roster.TemplateRepository,
	instanceRepo roster.InstanceRepository,
	calendar *calendarService.Resolver,
) *Service {
	return &Service{
		tx:           tx,
		locationRepo: locationRepo,
		templateRepo: templateRepo,
		instanceRepo: instanceRepo,
		calendar:     calendar,
	}
}

// GenerateMonth creates the shift instances for every open day of the month
// containing month and returns them in ascending date order.
func (s *Service) GenerateMonth(ctx context.Context, locationID string, month time.Time) ([]roster.ShiftInstance, error) {
	loc, err := s.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}

	templates, err := s.templateRepo.ActiveForLocation(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("load active templates: %w", err)
	}

	rules, err := s.calendar.MonthRules(ctx, locationID, month)
	if err != nil {
		return nil, err
	}

	from, to := roster.MonthRange(month)
	dates, err := openDates(from, to, loc.OpenDays)
	if err != nil {
		return nil, fmt.Errorf("expand open dates: %w", err)
	}

	// A special-hours override marks the location open on that date even when
	// the weekday is normally closed. Dates on open weekdays are already in
	// the expansion.
	for _, d := range rules.SpecialHoursDates() {
		if loc.OpenOn(d.Weekday()) {
			continue
		}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	var created []roster.ShiftInstance
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// Tombstone the whole month first so regeneration never leaves
		// residue on dates that no longer produce instances.
		if err := s.instanceRepo.SoftDeleteForLocationDateRange(ctx, locationID, from, to); err != nil {
			return fmt.Errorf("soft delete existing instances: %w", err)
		}

		for _, date := range dates {
			if rules.IsBlackout(date) {
				continue
			}

			if override, ok := rules.SpecialHoursFor(date); ok {
				if len(templates) == 0 {
					continue
				}
				// Override days collapse to a single instance from the
				// first template by priority, with the override times.
				instance, err := s.createInstance(ctx, templates[0], date, override.OpenTime, override.CloseTime)
				if err != nil {
					return err
				}
				created = append(created, instance)
				continue
			}

			for _, tpl := range templates {
				instance, err := s.createInstance(ctx, tpl, date, tpl.StartTime, tpl.EndTime)
				if err != nil {
					return err
				}
				created = append(created, instance)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (s *Service) createInstance(ctx context.Context, tpl roster.ShiftTemplate, date, start, end time.Time) (roster.ShiftInstance, error) {
	instance := roster.ShiftInstance{
		ID:                uuid.Must(uuid.NewV7()).String(),
		CompanyID:         tpl.CompanyID,
		LocationID:        tpl.LocationID,
		TemplateID:        tpl.ID,
		Date:              roster.DateOf(date),
		StartTime:         start,
		EndTime:           end,
		RequiredEmployees: tpl.RequiredEmployees(),
		IdealEmployees:    tpl.IdealEmployees(),
	}

	created, err := s.instanceRepo.Create(ctx, instance)
	if err != nil {
		return roster.ShiftInstance{}, fmt.Errorf("create instance for template %s on %s: %w", tpl.ID, roster.DateKey(date), err)
	}
	return created, nil
}

var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// openDates enumerates the dates in [from, to] falling on the location's
// open weekdays. No configured open days means open every day.
func openDates(from, to time.Time, openDays []time.Weekday) ([]time.Time, error) {
	byWeekday := make([]rrule.Weekday, 0, len(openDays))
	for _, d := range openDays {
		byWeekday = append(byWeekday, rruleWeekdays[d])
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.DAILY,
		Dtstart:   from,
		Until:     to,
		Byweekday: byWeekday,
	})
	if err != nil {
		return nil, err
	}
	return rule.All(), nil
}
