package notification

import (
	"context"
	"time"
)

type EventType string

const (
	EventAssignmentCreated EventType = "assignment_created"
	EventAssignmentRemoved EventType = "assignment_removed"
)

// Event is the outbound message published when an assignment is created or
// removed. Delivery is fire-and-forget: scheduling never waits on it.
type Event struct {
	Type            EventType `json:"type"`
	CompanyID       string    `json:"company_id"`
	LocationID      string    `json:"location_id"`
	ShiftInstanceID string    `json:"shift_instance_id"`
	EmployeeID      string    `json:"employee_id"`
	Date            string    `json:"date"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// Sink publishes events to the outbound transport.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}
