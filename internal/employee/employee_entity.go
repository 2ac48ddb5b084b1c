package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Address struct {
	Country   string `gorm:"type:varchar(50)"`
	Region    string `gorm:"type:varchar(50)"`
	Street    string `gorm:"type:varchar(100)"`
	City      string `gorm:"type:varchar(50)"`
	Block     string `gorm:"type:varchar(10)"`
	Building  string `gorm:"type:varchar(10)"`
	Apartment string `gorm:"type:varchar(10)"`
	Floor     int    `gorm:"type:int"`
	ZipCode   string `gorm:"type:varchar(10)"`
}

// JobInfo holds employment fields overwritten wholesale on every
// onboarding call. ManagerID is a plain identifier, never an embedded
// record; the manager row is resolved lazily through the repository.
type JobInfo struct {
	Email     string     `gorm:"type:varchar(100)"`
	HireDate  time.Time  `gorm:"type:date"`
	JobID     string     `gorm:"type:varchar(10)"`
	Salary    int        `gorm:"type:int"`
	ManagerID *uuid.UUID `gorm:"type:uuid"`
}

type Employee struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName   string    `gorm:"type:varchar(50);not null"`
	LastName    string    `gorm:"type:varchar(50);not null"`
	PhoneNumber string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_employees_phone_number"`

	Address Address `gorm:"embedded;embeddedPrefix:address_"`
	JobInfo JobInfo `gorm:"embedded;embeddedPrefix:job_"`

	LeaveBalances LeaveBalances `gorm:"type:jsonb;not null;default:'{}'"`

	// Version guards the balance map against concurrent captures.
	// Every balance write is a compare-and-swap on this column.
	Version int `gorm:"type:int;not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_employees_deleted_at"`
}

// ManagerOfRecord returns the identifier whose approval a leave request
// must carry: the stored manager, or the employee itself when no manager
// is set (top-level employees self-approve).
func (e *Employee) ManagerOfRecord() uuid.UUID {
	if e.JobInfo.ManagerID != nil {
		return *e.JobInfo.ManagerID
	}
	return e.ID
}
