package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rosterly/rostering-backend-go/internal/domain/location"
	"github.com/rosterly/rostering-backend-go/internal/pkg/locking"
	"github.com/rosterly/rostering-backend-go/internal/service/autoscheduler"
	"github.com/rosterly/rostering-backend-go/internal/service/generator"
)

// Service runs the periodic roster jobs across every active location. Each
// schedule run is guarded by a per-(location, date) lock so overlapping
// workers do not double-fill the same day.
type Service struct {
	locationRepo location.Repository
	generator    *generator.Service
	scheduler    *autoscheduler.Service
	locker       *locking.Locker
	logger       *slog.Logger
}

func NewService(
	locationRepo location.Repository,
	gen *generator.Service,
	sched *autoscheduler.Service,
	locker *locking.Locker,
	logger *slog.Logger,
) *Service {
	return &Service{
		locationRepo: locationRepo,
		generator:    gen,
		scheduler:    sched,
		locker:       locker,
		logger:       logger,
	}
}

// GenerateUpcomingMonth regenerates next month's shift instances for every
// active location. Generation is idempotent, so a retry after a partial
// failure is safe.
func (s *Service) GenerateUpcomingMonth(ctx context.Context) error {
	month := nextMonth(time.Now().UTC())

	locations, err := s.locationRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list locations: %w", err)
	}

	var failed int
	for _, loc := range locations {
		instances, err := s.generator.GenerateMonth(ctx, loc.ID, month)
		if err != nil {
			failed++
			s.logger.Error("roster generation failed",
				"location_id", loc.ID, "month", month.Format("2006-01"), "error", err)
			continue
		}
		s.logger.Info("roster generated",
			"location_id", loc.ID, "month", month.Format("2006-01"), "instances", len(instances))
	}
	if failed > 0 {
		return fmt.Errorf("generation failed for %d of %d locations", failed, len(locations))
	}
	return nil
}

// ScheduleUpcomingMonth auto-fills next month's roster for every active
// location. Locations whose lock is held elsewhere are skipped, not retried.
func (s *Service) ScheduleUpcomingMonth(ctx context.Context) error {
	month := nextMonth(time.Now().UTC())

	locations, err := s.locationRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list locations: %w", err)
	}

	var failed int
	for _, loc := range locations {
		if err := s.scheduleLocked(ctx, loc.ID, month); err != nil {
			failed++
			s.logger.Error("auto scheduling failed",
				"location_id", loc.ID, "month", month.Format("2006-01"), "error", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("scheduling failed for %d of %d locations", failed, len(locations))
	}
	return nil
}

func (s *Service) scheduleLocked(ctx context.Context, locationID string, month time.Time) error {
	key := locking.ScheduleDayKey(locationID, month)

	release, ok, err := s.locker.Acquire(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Info("schedule run skipped, lock held",
			"location_id", locationID, "month", month.Format("2006-01"))
		return nil
	}
	defer release()

	return s.scheduler.ScheduleMonth(ctx, locationID, month)
}

func nextMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, time.UTC)
}
