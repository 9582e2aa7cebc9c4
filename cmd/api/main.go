package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/rosterly/rostering-backend-go/internal/config"
	appHTTP "github.com/rosterly/rostering-backend-go/internal/handler/http"
	"github.com/rosterly/rostering-backend-go/internal/pkg/cron"
	"github.com/rosterly/rostering-backend-go/internal/pkg/database"
	"github.com/rosterly/rostering-backend-go/internal/pkg/locking"
	"github.com/rosterly/rostering-backend-go/internal/pkg/messaging"
	"github.com/rosterly/rostering-backend-go/internal/repository/postgresql"
	assignmentService "github.com/rosterly/rostering-backend-go/internal/service/assignment"
	autoschedulerService "github.com/rosterly/rostering-backend-go/internal/service/autoscheduler"
	batchService "github.com/rosterly/rostering-backend-go/internal/service/batch"
	calendarService "github.com/rosterly/rostering-backend-go/internal/service/calendar"
	generatorService "github.com/rosterly/rostering-backend-go/internal/service/generator"
	requirementService "github.com/rosterly/rostering-backend-go/internal/service/requirement"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ:", err)
	}
	sink, err := messaging.NewRabbitMQSink(amqpConn, cfg.RabbitMQ.Queue)
	if err != nil {
		log.Fatal("Failed to initialize event sink:", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	locker := locking.NewLocker(redisClient, cfg.Redis.LockTTL)

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
		sink,
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

	if cfg.Jobs.Enabled {
		batch := batchService.NewService(locationRepo, generator, scheduler, locker, logger)
		jobs := cron.NewScheduler()
		jobs.AddJob("generate-upcoming-month", cfg.Jobs.GenerationInterval, batch.GenerateUpcomingMonth)
		jobs.AddJob("schedule-upcoming-month", cfg.Jobs.SchedulingInterval, batch.ScheduleUpcomingMonth)
		jobs.Start()
		defer jobs.Stop()
	}

	rosterHandler := appHTTP.NewRosterHandler(generator, scheduler, engine, requirements, locker)
	router := appHTTP.NewRouter(rosterHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
