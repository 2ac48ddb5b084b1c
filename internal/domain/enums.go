package domain

// LeaveType is the closed set of leave categories. Each type carries an
// independent balance on the employee record.
type LeaveType string

const (
	LeaveTypeSick     LeaveType = "SICK"
	LeaveTypeVacation LeaveType = "VACATION"
	LeaveTypeUnpaid   LeaveType = "UNPAID"
)

// AllLeaveTypes returns every leave type in the enumeration. New employees
// get a zero balance for each of these.
func AllLeaveTypes() []LeaveType {
	return []LeaveType{LeaveTypeSick, LeaveTypeVacation, LeaveTypeUnpaid}
}

func (t LeaveType) Valid() bool {
	switch t {
	case LeaveTypeSick, LeaveTypeVacation, LeaveTypeUnpaid:
		return true
	}
	return false
}

type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "PENDING"
	LeaveStatusApproved LeaveStatus = "APPROVED"
	LeaveStatusRejected LeaveStatus = "REJECTED"
)

func (s LeaveStatus) Valid() bool {
	switch s {
	case LeaveStatusPending, LeaveStatusApproved, LeaveStatusRejected:
		return true
	}
	return false
}

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	}
	return false
}
