package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterly/rostering-backend-go/internal/domain/employee"
	"github.com/rosterly/rostering-backend-go/internal/domain/location"
	"github.com/rosterly/rostering-backend-go/internal/domain/notification"
	"github.com/rosterly/rostering-backend-go/internal/domain/roster"
	"github.com/rosterly/rostering-backend-go/internal/handler/http/response"
	"github.com/rosterly/rostering-backend-go/internal/pkg/locking"
	"github.com/rosterly/rostering-backend-go/internal/repository/memory"
	assignmentService "github.com/rosterly/rostering-backend-go/internal/service/assignment"
	autoschedulerService "github.com/rosterly/rostering-backend-go/internal/service/autoscheduler"
	calendarService "github.com/rosterly/rostering-backend-go/internal/service/calendar"
	generatorService "github.com/rosterly/rostering-backend-go/internal/service/generator"
	requirementService "github.com/rosterly/rostering-backend-go/internal/service/requirement"
)

var testDate = time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)

type noopSink struct{}

func (noopSink) Publish(ctx context.Context, event notification.Event) error { return nil }

func newTestServer() (*httptest.Server, *memory.Store) {
	store := memory.NewStore()
	instanceRepo := memory.NewInstanceRepository(store)
	templateRepo := memory.NewTemplateRepository(store)
	assignmentRepo := memory.NewAssignmentRepository(store)
	employeeRepo := memory.NewEmployeeRepository(store)
	availabilityRepo := memory.NewAvailabilityRepository(store)
	locationRepo := memory.NewLocationRepository(store)
	calendarRepo := memory.NewCalendarRepository(store)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver := calendarService.NewResolver(calendarRepo)
	gen := generatorService.NewService(store, locationRepo, templateRepo, instanceRepo, resolver)
	requirements := requirementService.NewService(instanceRepo, templateRepo, assignmentRepo, employeeRepo)
	validator := assignmentService.NewValidator(assignmentRepo, availabilityRepo, employeeRepo)
	engine := assignmentService.NewEngine(
		store, instanceRepo, templateRepo, assignmentRepo, employeeRepo,
		validator, requirements, noopSink{}, logger,
	)
	scheduler := autoschedulerService.NewService(
		instanceRepo, templateRepo, assignmentRepo, employeeRepo,
		availabilityRepo, requirements, engine, logger,
	)

	// The client is never dialed by the endpoints these tests exercise.
	locker := locking.NewLocker(redis.NewClient(&redis.Options{Addr: "localhost:0"}), time.Minute)

	handler := NewRosterHandler(gen, scheduler, engine, requirements, locker)
	return httptest.NewServer(NewRouter(handler)), store
}

func seedRosterData(store *memory.Store) {
	store.PutLocation(location.Location{ID: "loc-1", CompanyID: "company-1", Name: "Downtown"})
	store.PutTemplate(roster.ShiftTemplate{
		ID:         "tpl-1",
		CompanyID:  "company-1",
		LocationID: "loc-1",
		StartTime:  time.Date(0, 1, 1, 9, 0, 0, 0, time.UTC),
		EndTime:    time.Date(0, 1, 1, 17, 0, 0, 0, time.UTC),
		IsActive:   true,
		PositionRequirements: []roster.PositionRequirement{
			{Position: "Cashier", RequiredCount: 1, IdealCount: 1},
		},
	})
	store.PutInstance(roster.ShiftInstance{
		ID:                "inst-1",
		CompanyID:         "company-1",
		LocationID:        "loc-1",
		TemplateID:        "tpl-1",
		Date:              testDate,
		StartTime:         time.Date(0, 1, 1, 9, 0, 0, 0, time.UTC),
		EndTime:           time.Date(0, 1, 1, 17, 0, 0, 0, time.UTC),
		RequiredEmployees: 1,
		IdealEmployees:    1,
	})
	store.PutEmployee(employee.Employee{
		ID:               "emp-1",
		CompanyID:        "company-1",
		Position:         "Cashier",
		LocationIDs:      []string{"loc-1"},
		EmploymentStatus: employee.EmploymentStatusActive,
	})
}

func decodeResponse(t *testing.T, res *http.Response) response.Response {
	t.Helper()
	defer res.Body.Close()
	var body response.Response
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body
}

func TestCreateAssignment(t *testing.T) {
	server, store := newTestServer()
	defer server.Close()
	seedRosterData(store)

	payload := bytes.NewBufferString(`{"employee_id":"emp-1"}`)
	res, err := http.Post(server.URL+"/api/v1/shift-instances/inst-1/assignments", "application/json", payload)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	body := decodeResponse(t, res)
	assert.True(t, body.Success)
}

func TestCreateAssignment_RuleViolation(t *testing.T) {
	server, store := newTestServer()
	defer server.Close()
	seedRosterData(store)
	store.PutEmployee(employee.Employee{
		ID:               "emp-2",
		CompanyID:        "company-1",
		Position:         "Stock Clerk",
		LocationIDs:      []string{"loc-1"},
		EmploymentStatus: employee.EmploymentStatusActive,
	})

	payload := bytes.NewBufferString(`{"employee_id":"emp-2"}`)
	res, err := http.Post(server.URL+"/api/v1/shift-instances/inst-1/assignments", "application/json", payload)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)

	body := decodeResponse(t, res)
	require.NotNil(t, body.Error)
	assert.Equal(t, roster.RulePositionMismatch, body.Error.Code)
}

func TestCreateAssignment_MissingEmployeeID(t *testing.T) {
	server, store := newTestServer()
	defer server.Close()
	seedRosterData(store)

	payload := bytes.NewBufferString(`{}`)
	res, err := http.Post(server.URL+"/api/v1/shift-instances/inst-1/assignments", "application/json", payload)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
}

func TestCreateAssignment_UnknownInstance(t *testing.T) {
	server, store := newTestServer()
	defer server.Close()
	seedRosterData(store)

	payload := bytes.NewBufferString(`{"employee_id":"emp-1"}`)
	res, err := http.Post(server.URL+"/api/v1/shift-instances/missing/assignments", "application/json", payload)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestDeleteAssignment(t *testing.T) {
	server, store := newTestServer()
	defer server.Close()
	seedRosterData(store)
	store.PutAssignment(roster.ShiftAssignment{ID: "asg-1", ShiftInstanceID: "inst-1", EmployeeID: "emp-1"})

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/v1/shift-instances/inst-1/assignments/emp-1", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()
}

func TestGetInstanceStatus(t *testing.T) {
	server, store := newTestServer()
	defer server.Close()
	seedRosterData(store)
	store.PutAssignment(roster.ShiftAssignment{ID: "asg-1", ShiftInstanceID: "inst-1", EmployeeID: "emp-1"})

	res, err := http.Get(server.URL + "/api/v1/shift-instances/inst-1/status")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	body := decodeResponse(t, res)
	data, err := json.Marshal(body.Data)
	require.NoError(t, err)
	var status instanceStatusResponse
	require.NoError(t, json.Unmarshal(data, &status))
	assert.True(t, status.IsComplete)
	require.Len(t, status.Positions, 1)
	assert.Equal(t, 1, status.Positions[0].AssignedCount)
}

func TestGenerateRoster(t *testing.T) {
	server, store := newTestServer()
	defer server.Close()
	seedRosterData(store)

	res, err := http.Post(server.URL+"/api/v1/locations/loc-1/roster/generate?month=2026-04", "application/json", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()
}

func TestGenerateRoster_BadMonth(t *testing.T) {
	server, store := newTestServer()
	defer server.Close()
	seedRosterData(store)

	res, err := http.Post(server.URL+"/api/v1/locations/loc-1/roster/generate?month=april", "application/json", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	res.Body.Close()
}

func TestScheduleRoster_MissingParams(t *testing.T) {
	server, store := newTestServer()
	defer server.Close()
	seedRosterData(store)

	res, err := http.Post(server.URL+"/api/v1/locations/loc-1/roster/schedule", "application/json", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	res.Body.Close()
}

func TestDeleteEmployeeAssignments(t *testing.T) {
	server, store := newTestServer()
	defer server.Close()
	seedRosterData(store)
	store.PutAssignment(roster.ShiftAssignment{ID: "asg-1", ShiftInstanceID: "inst-1", EmployeeID: "emp-1"})

	req, err := http.NewRequest(http.MethodDelete,
		server.URL+"/api/v1/employees/emp-1/assignments?from=2026-03-01&to=2026-03-31", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()
}
