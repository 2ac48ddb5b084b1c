package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

const LeaveCapturedType = "leave.captured"

type LeaveCapturedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	LeaveID    string    `json:"leave_id"`
	EmployeeID string    `json:"employee_id"`
	LeaveType  string    `json:"leave_type"`
	TotalDays  int       `json:"total_days"`
	OccurredAt time.Time `json:"occurred_at"`
}
