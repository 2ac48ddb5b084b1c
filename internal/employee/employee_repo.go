package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	Update(ctx context.Context, empl *Employee) error
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByPhoneNumber(ctx context.Context, phoneNumber string) (*Employee, error)
	SearchByName(ctx context.Context, name string, page, size int) ([]Employee, int64, error)
	// UpdateLeaveBalances writes the balance map only when the stored
	// version still matches expectedVersion. Returns false on conflict.
	UpdateLeaveBalances(ctx context.Context, id string, balances LeaveBalances, expectedVersion int) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn returns a session bound to the held transaction when one is set,
// so every statement issued through it commits or rolls back with the
// caller's tx.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Create(empl).Error
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Save(empl).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	err := r.conn(ctx).First(&empl, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &empl, nil
}

func (r *repository) FindByPhoneNumber(ctx context.Context, phoneNumber string) (*Employee, error) {
	var empl Employee
	err := r.conn(ctx).First(&empl, "phone_number = ?", phoneNumber).Error
	if err != nil {
		return nil, err
	}
	return &empl, nil
}

func (r *repository) SearchByName(ctx context.Context, name string, page, size int) ([]Employee, int64, error) {
	pattern := "%" + name + "%"

	base := r.conn(ctx).
		Model(&Employee{}).
		Where("first_name ILIKE ? OR last_name ILIKE ?", pattern, pattern)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var empls []Employee
	err := base.
		Order("last_name ASC, first_name ASC").
		Offset(page * size).
		Limit(size).
		Find(&empls).Error
	return empls, total, err
}

func (r *repository) UpdateLeaveBalances(ctx context.Context, id string, balances LeaveBalances, expectedVersion int) (bool, error) {
	res := r.conn(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Where("version = ?", expectedVersion).
		Updates(map[string]interface{}{
			"leave_balances": balances,
			"version":        expectedVersion + 1,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
