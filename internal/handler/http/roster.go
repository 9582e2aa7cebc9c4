package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/rosterly/rostering-backend-go/internal/domain/roster"
	"github.com/rosterly/rostering-backend-go/internal/handler/http/response"
	"github.com/rosterly/rostering-backend-go/internal/pkg/locking"
	"github.com/rosterly/rostering-backend-go/internal/service/assignment"
	"github.com/rosterly/rostering-backend-go/internal/service/autoscheduler"
	"github.com/rosterly/rostering-backend-go/internal/service/generator"
	"github.com/rosterly/rostering-backend-go/internal/service/requirement"
)

type RosterHandler interface {
	GenerateRoster(w http.ResponseWriter, r *http.Request)
	ScheduleRoster(w http.ResponseWriter, r *http.Request)
	CreateAssignment(w http.ResponseWriter, r *http.Request)
	DeleteAssignment(w http.ResponseWriter, r *http.Request)
	GetInstanceStatus(w http.ResponseWriter, r *http.Request)
	DeleteEmployeeAssignments(w http.ResponseWriter, r *http.Request)
}

type rosterHandlerImpl struct {
	generator    *generator.Service
	scheduler    *autoscheduler.Service
	engine       *assignment.Engine
	requirements *requirement.Service
	locker       *locking.Locker
	validate     *validator.Validate
}

func NewRosterHandler(
	gen *generator.Service,
	sched *autoscheduler.Service,
	engine *assignment.Engine,
	requirements *requirement.Service,
	locker *locking.Locker,
) RosterHandler {
	return &rosterHandlerImpl{
		generator:    gen,
		scheduler:    sched,
		engine:       engine,
		requirements: requirements,
		locker:       locker,
		validate:     validator.New(),
	}
}

type createAssignmentRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
}

type assignmentResponse struct {
	Assignment roster.ShiftAssignment `json:"assignment"`
	Warnings   []string               `json:"warnings,omitempty"`
}

type instanceStatusResponse struct {
	InstanceID string                  `json:"instance_id"`
	IsComplete bool                    `json:"is_complete"`
	Positions  []roster.PositionStatus `json:"positions"`
	Languages  []roster.LanguageStatus `json:"languages"`
}

// GenerateRoster regenerates all shift instances for one location and month.
func (h *rosterHandlerImpl) GenerateRoster(w http.ResponseWriter, r *http.Request) {
	locationID := chi.URLParam(r, "locationID")

	month, err := time.Parse("2006-01", r.URL.Query().Get("month"))
	if err != nil {
		response.BadRequest(w, "Invalid or missing month, expected YYYY-MM", nil)
		return
	}

	instances, err := h.generator.GenerateMonth(r.Context(), locationID, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Roster generated successfully", map[string]interface{}{
		"location_id": locationID,
		"month":       month.Format("2006-01"),
		"instances":   instances,
	})
}

// ScheduleRoster auto-fills one day (date=) or a whole month (month=) for a
// location. Runs are serialized with a per-location lock.
func (h *rosterHandlerImpl) ScheduleRoster(w http.ResponseWriter, r *http.Request) {
	locationID := chi.URLParam(r, "locationID")
	ctx := r.Context()

	dateParam := r.URL.Query().Get("date")
	monthParam := r.URL.Query().Get("month")

	var (
		lockDate time.Time
		run      func() error
	)
	switch {
	case dateParam != "":
		date, err := time.Parse("2006-01-02", dateParam)
		if err != nil {
			response.BadRequest(w, "Invalid date, expected YYYY-MM-DD", nil)
			return
		}
		lockDate = date
		run = func() error { return h.scheduler.ScheduleDay(ctx, locationID, date) }
	case monthParam != "":
		month, err := time.Parse("2006-01", monthParam)
		if err != nil {
			response.BadRequest(w, "Invalid month, expected YYYY-MM", nil)
			return
		}
		lockDate = month
		run = func() error { return h.scheduler.ScheduleMonth(ctx, locationID, month) }
	default:
		response.BadRequest(w, "Either date or month query parameter is required", nil)
		return
	}

	release, acquired, err := h.locker.Acquire(ctx, locking.ScheduleDayKey(locationID, lockDate))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !acquired {
		response.Conflict(w, "A schedule run for this location is already in progress")
		return
	}
	defer release()

	if err := run(); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Schedule run completed", nil)
}

func (h *rosterHandlerImpl) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	instanceID := chi.URLParam(r, "instanceID")

	var req createAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.ValidationError(w, validationDetails(err))
		return
	}

	created, warnings, err := h.engine.Assign(r.Context(), instanceID, req.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee assigned successfully", assignmentResponse{
		Assignment: created,
		Warnings:   warnings,
	})
}

func (h *rosterHandlerImpl) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	instanceID := chi.URLParam(r, "instanceID")
	employeeID := chi.URLParam(r, "employeeID")

	if err := h.engine.Unassign(r.Context(), instanceID, employeeID); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee unassigned successfully", nil)
}

func (h *rosterHandlerImpl) GetInstanceStatus(w http.ResponseWriter, r *http.Request) {
	instanceID := chi.URLParam(r, "instanceID")
	ctx := r.Context()

	positions, err := h.requirements.PositionStatus(ctx, instanceID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	languages, err := h.requirements.LanguageStatus(ctx, instanceID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	complete := len(positions) > 0
	for _, st := range positions {
		if !st.Satisfied() {
			complete = false
			break
		}
	}

	response.Success(w, instanceStatusResponse{
		InstanceID: instanceID,
		IsComplete: complete,
		Positions:  positions,
		Languages:  languages,
	})
}

// DeleteEmployeeAssignments removes every active assignment of an employee in
// a date range. Used when approved leave invalidates scheduled shifts.
func (h *rosterHandlerImpl) DeleteEmployeeAssignments(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		response.BadRequest(w, "Invalid or missing from, expected YYYY-MM-DD", nil)
		return
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		response.BadRequest(w, "Invalid or missing to, expected YYYY-MM-DD", nil)
		return
	}
	if to.Before(from) {
		response.BadRequest(w, "to must not be before from", nil)
		return
	}

	removed, err := h.engine.UnassignEmployeeInRange(r.Context(), employeeID, from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Assignments removed", map[string]interface{}{
		"employee_id":   employeeID,
		"removed_count": removed,
	})
}

func validationDetails(err error) map[string]string {
	details := make(map[string]string)
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			details[fe.Field()] = "failed on " + fe.Tag()
		}
	}
	return details
}
