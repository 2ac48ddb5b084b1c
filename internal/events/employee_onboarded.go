package events

import "time"

const EmployeeLifecycleTopic = "hr.employee.lifecycle.v1"

const (
	EmployeeOnboardedType = "employee.onboarded"
	EmployeeRejoinedType  = "employee.rejoined"
)

// EmployeeOnboardedEvent is emitted for both first-time onboarding and
// rejoin; EventType distinguishes the two.
type EmployeeOnboardedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EmployeeID string    `json:"employee_id"`
	ActorName  string    `json:"actor_name"`
	OccurredAt time.Time `json:"occurred_at"`
}
