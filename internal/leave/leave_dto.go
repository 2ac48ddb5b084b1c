package leave

type CaptureLeaveRequest struct {
	EmployeeID   string `json:"employee_id" binding:"required,uuid"`
	LeaveType    string `json:"leave_type" binding:"required,oneof=SICK VACATION UNPAID"`
	StartDate    string `json:"start_date" binding:"required"`
	EndDate      string `json:"end_date" binding:"required"`
	Status       string `json:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	ApprovedByID string `json:"approved_by_id" binding:"required,uuid"`
	Reason       string `json:"reason" binding:"max=500"`
}

type LeaveResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	LeaveType  string `json:"leave_type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	TotalDays  int    `json:"total_days"`
	Reason     string `json:"reason,omitempty"`
	Status     string `json:"status"`
	ApprovedBy string `json:"approved_by"`

	// RemainingBalance is the employee's balance for the leave type after
	// the capture was applied.
	RemainingBalance int `json:"remaining_balance"`
}
