package assignment

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterly/rostering-backend-go/internal/domain/employee"
	"github.com/rosterly/rostering-backend-go/internal/domain/notification"
	"github.com/rosterly/rostering-backend-go/internal/domain/roster"
	"github.com/rosterly/rostering-backend-go/internal/repository/memory"
	"github.com/rosterly/rostering-backend-go/internal/service/requirement"
)

var testDate = time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC) // a Monday

type fixture struct {
	store          *memory.Store
	instanceRepo   *memory.InstanceRepository
	assignmentRepo *memory.AssignmentRepository
	employeeRepo   *memory.EmployeeRepository
	validator      *Validator
	engine         *Engine
	sink           *captureSink
}

type captureSink struct {
	events []notification.Event
}

func (c *captureSink) Publish(ctx context.Context, event notification.Event) error {
	c.events = append(c.events, event)
	return nil
}

func newFixture() *fixture {
	store := memory.NewStore()
	instanceRepo := memory.NewInstanceRepository(store)
	templateRepo := memory.NewTemplateRepository(store)
	assignmentRepo := memory.NewAssignmentRepository(store)
	employeeRepo := memory.NewEmployeeRepository(store)
	availabilityRepo := memory.NewAvailabilityRepository(store)

	validator := NewValidator(assignmentRepo, availabilityRepo, employeeRepo)
	completeness := requirement.NewService(instanceRepo, templateRepo, assignmentRepo, employeeRepo)
	sink := &captureSink{}
	engine := NewEngine(
		store,
		instanceRepo,
		templateRepo,
		assignmentRepo,
		employeeRepo,
		validator,
		completeness,
		sink,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	return &fixture{
		store:          store,
		instanceRepo:   instanceRepo,
		assignmentRepo: assignmentRepo,
		employeeRepo:   employeeRepo,
		validator:      validator,
		engine:         engine,
		sink:           sink,
	}
}

func clockAt(hour, minute int) time.Time {
	return time.Date(0, time.January, 1, hour, minute, 0, 0, time.UTC)
}

// seedShift stores a template and one dated instance of it, with the staffing
// counts snapshotted the way the generator would.
func (f *fixture) seedShift(id string, date time.Time, startHour, endHour int, reqs []roster.PositionRequirement, langs []roster.LanguageRequirement) (roster.ShiftTemplate, roster.ShiftInstance) {
	tpl := roster.ShiftTemplate{
		ID:                   "tpl-" + id,
		CompanyID:            "company-1",
		LocationID:           "loc-1",
		Name:                 "Shift " + id,
		StartTime:            clockAt(startHour, 0),
		EndTime:              clockAt(endHour, 0),
		IsActive:             true,
		PositionRequirements: reqs,
		LanguageRequirements: langs,
	}
	f.store.PutTemplate(tpl)

	required, ideal := 0, 0
	for _, pr := range reqs {
		required += pr.RequiredCount
		if pr.IdealCount > pr.RequiredCount {
			ideal += pr.IdealCount
		} else {
			ideal += pr.RequiredCount
		}
	}
	instance := roster.ShiftInstance{
		ID:                "inst-" + id,
		CompanyID:         "company-1",
		LocationID:        "loc-1",
		TemplateID:        tpl.ID,
		Date:              roster.DateOf(date),
		StartTime:         tpl.StartTime,
		EndTime:           tpl.EndTime,
		RequiredEmployees: required,
		IdealEmployees:    ideal,
	}
	f.store.PutInstance(instance)
	return tpl, instance
}

func (f *fixture) seedEmployee(id, position string, langs ...string) employee.Employee {
	emp := employee.Employee{
		ID:               id,
		CompanyID:        "company-1",
		FullName:         "Employee " + id,
		Position:         position,
		Languages:        langs,
		LocationIDs:      []string{"loc-1"},
		EmploymentStatus: employee.EmploymentStatusActive,
	}
	f.store.PutEmployee(emp)
	return emp
}

func cashierReq(required, ideal int) []roster.PositionRequirement {
	return []roster.PositionRequirement{{Position: "Cashier", RequiredCount: required, IdealCount: ideal}}
}

func assertRule(t *testing.T, err error, rule string) {
	t.Helper()
	require.Error(t, err)
	var ve *roster.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, rule, ve.Rule)
}

func TestValidate_Passes(t *testing.T) {
	f := newFixture()
	tpl, instance := f.seedShift("a", testDate, 9, 17, cashierReq(1, 1), nil)
	emp := f.seedEmployee("emp-1", "Cashier")

	err := f.validator.Validate(context.Background(), instance, tpl, emp)
	assert.NoError(t, err)
}

func TestValidate_AlreadyAssigned(t *testing.T) {
	f := newFixture()
	tpl, instance := f.seedShift("a", testDate, 9, 17, cashierReq(2, 2), nil)
	emp := f.seedEmployee("emp-1", "Cashier")
	f.store.PutAssignment(roster.ShiftAssignment{ID: "asg-1", ShiftInstanceID: instance.ID, EmployeeID: emp.ID})

	err := f.validator.Validate(context.Background(), instance, tpl, emp)
	assertRule(t, err, roster.RuleAlreadyAssigned)
}

func TestValidate_NotAMember(t *testing.T) {
	f := newFixture()
	tpl, instance := f.seedShift("a", testDate, 9, 17, cashierReq(1, 1), nil)

	otherCompany := f.seedEmployee("emp-1", "Cashier")
	otherCompany.CompanyID = "company-2"
	f.store.PutEmployee(otherCompany)

	otherLocation := f.seedEmployee("emp-2", "Cashier")
	otherLocation.LocationIDs = []string{"loc-2"}
	f.store.PutEmployee(otherLocation)

	err := f.validator.Validate(context.Background(), instance, tpl, otherCompany)
	assertRule(t, err, roster.RuleNotMember)

	err = f.validator.Validate(context.Background(), instance, tpl, otherLocation)
	assertRule(t, err, roster.RuleNotMember)
}

func TestValidate_BlockingAvailability(t *testing.T) {
	f := newFixture()
	tpl, instance := f.seedShift("a", testDate, 9, 17, cashierReq(1, 1), nil)
	emp := f.seedEmployee("emp-1", "Cashier")
	f.store.PutAvailability(employee.Availability{
		ID:         "av-1",
		EmployeeID: emp.ID,
		Type:       employee.AvailabilityVacation,
		StartDate:  testDate.AddDate(0, 0, -2),
		EndDate:    testDate.AddDate(0, 0, 2),
	})

	err := f.validator.Validate(context.Background(), instance, tpl, emp)
	assertRule(t, err, roster.RuleBlockingAvailability)
}

func TestValidate_PreferenceNoteDoesNotBlock(t *testing.T) {
	f := newFixture()
	tpl, instance := f.seedShift("a", testDate, 9, 17, cashierReq(1, 1), nil)
	emp := f.seedEmployee("emp-1", "Cashier")
	f.store.PutAvailability(employee.Availability{
		ID:         "av-1",
		EmployeeID: emp.ID,
		Type:       employee.AvailabilityPreference,
		StartDate:  testDate,
		EndDate:    testDate,
		Note:       "would rather not work mornings",
	})

	err := f.validator.Validate(context.Background(), instance, tpl, emp)
	assert.NoError(t, err)
}

func TestValidate_PositionMismatch(t *testing.T) {
	f := newFixture()
	tpl, instance := f.seedShift("a", testDate, 9, 17, cashierReq(1, 1), nil)
	emp := f.seedEmployee("emp-1", "Stock Clerk")

	err := f.validator.Validate(context.Background(), instance, tpl, emp)
	assertRule(t, err, roster.RulePositionMismatch)
}

func TestValidate_MissingLanguageDoesNotBlock(t *testing.T) {
	f := newFixture()
	tpl, instance := f.seedShift("a", testDate, 9, 17, cashierReq(1, 1),
		[]roster.LanguageRequirement{{Language: "English", RequiredCount: 1}})
	emp := f.seedEmployee("emp-1", "Cashier", "German")

	err := f.validator.Validate(context.Background(), instance, tpl, emp)
	assert.NoError(t, err)
}

func TestValidate_OverlappingShift(t *testing.T) {
	f := newFixture()
	_, morning := f.seedShift("a", testDate, 9, 17, cashierReq(1, 1), nil)
	tpl, evening := f.seedShift("b", testDate, 16, 22, cashierReq(1, 1), nil)
	emp := f.seedEmployee("emp-1", "Cashier")
	f.store.PutAssignment(roster.ShiftAssignment{ID: "asg-1", ShiftInstanceID: morning.ID, EmployeeID: emp.ID})

	err := f.validator.Validate(context.Background(), evening, tpl, emp)
	assertRule(t, err, roster.RuleOverlappingShift)
}

func TestValidate_BackToBackShiftsAllowed(t *testing.T) {
	f := newFixture()
	_, morning := f.seedShift("a", testDate, 9, 12, cashierReq(1, 1), nil)
	tpl, afternoon := f.seedShift("b", testDate, 12, 17, cashierReq(1, 1), nil)
	emp := f.seedEmployee("emp-1", "Cashier")
	f.store.PutAssignment(roster.ShiftAssignment{ID: "asg-1", ShiftInstanceID: morning.ID, EmployeeID: emp.ID})

	err := f.validator.Validate(context.Background(), afternoon, tpl, emp)
	assert.NoError(t, err)
}

func TestValidate_PositionCapacity(t *testing.T) {
	f := newFixture()
	// Required is the hard cap even though ideal is higher.
	tpl, instance := f.seedShift("a", testDate, 9, 17, cashierReq(1, 3), nil)
	seated := f.seedEmployee("emp-1", "Cashier")
	candidate := f.seedEmployee("emp-2", "Cashier")
	f.store.PutAssignment(roster.ShiftAssignment{ID: "asg-1", ShiftInstanceID: instance.ID, EmployeeID: seated.ID})

	err := f.validator.Validate(context.Background(), instance, tpl, candidate)
	assertRule(t, err, roster.RulePositionCapacity)
}

func TestValidate_ZeroRequiredCountAdmitsNobody(t *testing.T) {
	f := newFixture()
	// A listed position with a zero required count is a closed slot, even on
	// an empty shift.
	tpl, instance := f.seedShift("a", testDate, 9, 17, cashierReq(0, 2), nil)
	candidate := f.seedEmployee("emp-1", "Cashier")

	err := f.validator.Validate(context.Background(), instance, tpl, candidate)
	assertRule(t, err, roster.RulePositionCapacity)
}

func TestValidate_CapacityCountsOnlySamePosition(t *testing.T) {
	f := newFixture()
	reqs := []roster.PositionRequirement{
		{Position: "Cashier", RequiredCount: 1, IdealCount: 1},
		{Position: "Stock Clerk", RequiredCount: 1, IdealCount: 1},
	}
	tpl, instance := f.seedShift("a", testDate, 9, 17, reqs, nil)
	clerk := f.seedEmployee("emp-1", "Stock Clerk")
	cashier := f.seedEmployee("emp-2", "Cashier")
	f.store.PutAssignment(roster.ShiftAssignment{ID: "asg-1", ShiftInstanceID: instance.ID, EmployeeID: clerk.ID})

	err := f.validator.Validate(context.Background(), instance, tpl, cashier)
	assert.NoError(t, err)
}

func TestValidate_ChecksRunInOrder(t *testing.T) {
	f := newFixture()
	// Employee is both already assigned and the wrong position; the earlier
	// check must win.
	tpl, instance := f.seedShift("a", testDate, 9, 17, cashierReq(1, 1), nil)
	emp := f.seedEmployee("emp-1", "Stock Clerk")
	f.store.PutAssignment(roster.ShiftAssignment{ID: "asg-1", ShiftInstanceID: instance.ID, EmployeeID: emp.ID})

	err := f.validator.Validate(context.Background(), instance, tpl, emp)
	assertRule(t, err, roster.RuleAlreadyAssigned)
}
