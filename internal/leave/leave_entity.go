package leave

import (
	"time"

	"github.com/alechulkin/modfac/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Leave struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_employee_dates"`

	LeaveType domain.LeaveType `gorm:"type:varchar(30);not null"`
	StartDate time.Time        `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	EndDate   time.Time        `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	TotalDays int              `gorm:"type:int;not null;default:1"`
	Reason    string           `gorm:"type:varchar(500)"`

	Status domain.LeaveStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`

	// ApprovedBy always holds the manager-of-record at capture time.
	ApprovedBy uuid.UUID `gorm:"type:uuid;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leaves_deleted_at"`
}

// LeaveDays is the inclusive day span of a leave: a single-day request
// (start == end) costs one day.
func LeaveDays(startDate, endDate time.Time) int {
	return int(endDate.Sub(startDate).Hours()/24) + 1
}
