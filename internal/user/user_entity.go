package user

import (
	"time"

	"github.com/alechulkin/modfac/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	Username string      `gorm:"column:username;type:varchar(100);not null;uniqueIndex:uq_users_username"`
	Password string      `gorm:"column:password;type:text;not null"`
	Role     domain.Role `gorm:"column:role;type:varchar(20);not null;default:USER"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}
