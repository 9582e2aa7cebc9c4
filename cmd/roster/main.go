package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/rosterly/rostering-backend-go/internal/config"
	"github.com/rosterly/rostering-backend-go/internal/pkg/database"
	"github.com/rosterly/rostering-backend-go/internal/pkg/messaging"
	"github.com/rosterly/rostering-backend-go/internal/repository/postgresql"
	assignmentService "github.com/rosterly/rostering-backend-go/internal/service/assignment"
	autoschedulerService "github.com/rosterly/rostering-backend-go/internal/service/autoscheduler"
	calendarService "github.com/rosterly/rostering-backend-go/internal/service/calendar"
	generatorService "github.com/rosterly/rostering-backend-go/internal/service/generator"
	requirementService "github.com/rosterly/rostering-backend-go/internal/service/requirement"
)

// One-shot batch tool: regenerate and auto-fill a location's roster for one
// month. Meant for operators and migrations; events are not published.
func main() {
	var (
		locationID = flag.String("location", "", "location id (required)")
		monthStr   = flag.String("month", "", "month to process, YYYY-MM (required)")
		skipFill   = flag.Bool("skip-fill", false, "only generate instances, do not auto-schedule")
	)
	flag.Parse()

	if *locationID == "" || *monthStr == "" {
		flag.Usage()
		log.Fatal("both -location and -month are required")
	}
	month, err := time.Parse("2006-01", *monthStr)
	if err != nil {
		log.Fatal("invalid -month, expected YYYY-MM: ", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}
	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}

	tx := postgresql.NewTransactor(db)
	locationRepo := postgresql.NewLocationRepository(db)
	templateRepo := postgresql.NewShiftTemplateRepository(db)
	instanceRepo := postgresql.NewShiftInstanceRepository(db)
	assignmentRepo := postgresql.NewShiftAssignmentRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	availabilityRepo := postgresql.NewAvailabilityRepository(db)
	calendarRepo := postgresql.NewCalendarRepository(db)

	logger := slog.Default()

	calendarResolver := calendarService.NewResolver(calendarRepo)
	generator := generatorService.NewService(tx, locationRepo, templateRepo, instanceRepo, calendarResolver)
	requirements := requirementService.NewService(instanceRepo, templateRepo, assignmentRepo, employeeRepo)
	validator := assignmentService.NewValidator(assignmentRepo, availabilityRepo, employeeRepo)
	engine := assignmentService.NewEngine(
		tx,
		instanceRepo,
		templateRepo,
		assignmentRepo,
		employeeRepo,
		validator,
		requirements,
		messaging.NopSink{},
		logger,
	)
	scheduler := autoschedulerService.NewService(
		instanceRepo,
		templateRepo,
		assignmentRepo,
		employeeRepo,
		availabilityRepo,
		requirements,
		engine,
		logger,
	)

	ctx := context.Background()

	instances, err := generator.GenerateMonth(ctx, *locationID, month)
	if err != nil {
		log.Fatal("generation failed: ", err)
	}
	fmt.Printf("generated %d shift instances for %s %s\n", len(instances), *locationID, month.Format("2006-01"))

	if *skipFill {
		return
	}
	if err := scheduler.ScheduleMonth(ctx, *locationID, month); err != nil {
		log.Fatal("scheduling failed: ", err)
	}
	fmt.Printf("auto-scheduled %s %s\n", *locationID, month.Format("2006-01"))
}
