package employee_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alechulkin/modfac/internal/domain"
	"github.com/alechulkin/modfac/internal/employee"
	employeeerrors "github.com/alechulkin/modfac/internal/employee/errors"
	usererrors "github.com/alechulkin/modfac/internal/user/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeEmployeeRepository struct {
	withTxFn              func(tx *sql.Tx) employee.Repository
	createFn              func(ctx context.Context, empl *employee.Employee) error
	updateFn              func(ctx context.Context, empl *employee.Employee) error
	findByIDFn            func(ctx context.Context, id string) (*employee.Employee, error)
	findByPhoneNumberFn   func(ctx context.Context, phoneNumber string) (*employee.Employee, error)
	searchByNameFn        func(ctx context.Context, name string, page, size int) ([]employee.Employee, int64, error)
	updateLeaveBalancesFn func(ctx context.Context, id string, balances employee.LeaveBalances, expectedVersion int) (bool, error)
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeEmployeeRepository) Create(ctx context.Context, empl *employee.Employee) error {
	if f.createFn != nil {
		return f.createFn(ctx, empl)
	}
	return nil
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, empl *employee.Employee) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, empl)
	}
	return nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindByPhoneNumber(ctx context.Context, phoneNumber string) (*employee.Employee, error) {
	if f.findByPhoneNumberFn != nil {
		return f.findByPhoneNumberFn(ctx, phoneNumber)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) SearchByName(ctx context.Context, name string, page, size int) ([]employee.Employee, int64, error) {
	if f.searchByNameFn != nil {
		return f.searchByNameFn(ctx, name, page, size)
	}
	return nil, 0, nil
}

func (f *fakeEmployeeRepository) UpdateLeaveBalances(ctx context.Context, id string, balances employee.LeaveBalances, expectedVersion int) (bool, error) {
	if f.updateLeaveBalancesFn != nil {
		return f.updateLeaveBalancesFn(ctx, id, balances, expectedVersion)
	}
	return true, nil
}

type fakeAdminVerifier struct {
	verifyAdminFn func(ctx context.Context, username string) error
}

func (f *fakeAdminVerifier) VerifyAdmin(ctx context.Context, username string) error {
	if f.verifyAdminFn != nil {
		return f.verifyAdminFn(ctx, username)
	}
	return nil
}

type employeeServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service employee.Service
	repo    *fakeEmployeeRepository
	admins  *fakeAdminVerifier
}

func setupEmployeeServiceTest(t *testing.T) *employeeServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeEmployeeRepository{}
	admins := &fakeAdminVerifier{}
	svc := employee.NewService(db, repo, admins)

	return &employeeServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		admins:  admins,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func onboardRequest() employee.OnboardEmployeeRequest {
	return employee.OnboardEmployeeRequest{
		FirstName:   "John",
		LastName:    "Smith",
		PhoneNumber: "555-010-0001",
		Street:      "Main St",
		City:        "New York",
		Region:      "NY",
		ZipCode:     "10001",
		Email:       "john.smith@em.com",
		HireDate:    "2026-01-15",
		JobID:       "42",
		Salary:      50000,
	}
}

func TestEmployeeService_Onboard(t *testing.T) {
	ctx := context.Background()

	t.Run("success creates employee with zeroed balances", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.createFn = func(ctx context.Context, empl *employee.Employee) error {
			assert.Equal(t, "John", empl.FirstName)
			assert.Equal(t, "555-010-0001", empl.PhoneNumber)
			assert.Nil(t, empl.JobInfo.ManagerID)
			for _, lt := range domain.AllLeaveTypes() {
				assert.Equal(t, 0, empl.LeaveBalances[lt])
			}
			return nil
		}

		resp, err := deps.service.Onboard(ctx, "admin1", onboardRequest())

		assert.NoError(t, err)
		assert.Equal(t, "John", resp.FirstName)
		assert.Equal(t, "2026-01-15", resp.JobInfo.HireDate)
		assert.Nil(t, resp.JobInfo.ManagerID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success resolves manager by id", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		manager := &employee.Employee{ID: uuid.New()}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			assert.Equal(t, manager.ID.String(), id)
			return manager, nil
		}
		deps.repo.createFn = func(ctx context.Context, empl *employee.Employee) error {
			assert.NotNil(t, empl.JobInfo.ManagerID)
			assert.Equal(t, manager.ID, *empl.JobInfo.ManagerID)
			return nil
		}

		req := onboardRequest()
		req.ManagerID = manager.ID.String()

		resp, err := deps.service.Onboard(ctx, "admin1", req)

		assert.NoError(t, err)
		assert.NotNil(t, resp.JobInfo.ManagerID)
		assert.Equal(t, manager.ID.String(), *resp.JobInfo.ManagerID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success unresolvable manager degrades to none", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return nil, gorm.ErrRecordNotFound
		}
		deps.repo.createFn = func(ctx context.Context, empl *employee.Employee) error {
			assert.Nil(t, empl.JobInfo.ManagerID)
			return nil
		}

		req := onboardRequest()
		req.ManagerID = uuid.New().String()

		resp, err := deps.service.Onboard(ctx, "admin1", req)

		assert.NoError(t, err)
		assert.Nil(t, resp.JobInfo.ManagerID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success malformed manager id degrades to none", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			t.Fatal("malformed manager id must not hit the repository")
			return nil, nil
		}
		deps.repo.createFn = func(ctx context.Context, empl *employee.Employee) error {
			assert.Nil(t, empl.JobInfo.ManagerID)
			return nil
		}

		req := onboardRequest()
		req.ManagerID = "not-a-uuid"

		_, err := deps.service.Onboard(ctx, "admin1", req)

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success rejoin keeps balances and overwrites job info", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		existing := &employee.Employee{
			ID:          uuid.New(),
			FirstName:   "Old",
			LastName:    "Name",
			PhoneNumber: "555-010-0001",
			JobInfo: employee.JobInfo{
				Email:  "old@em.com",
				JobID:  "7",
				Salary: 100,
			},
			LeaveBalances: employee.LeaveBalances{domain.LeaveTypeSick: 5},
			Version:       2,
		}

		deps.repo.findByPhoneNumberFn = func(ctx context.Context, phoneNumber string) (*employee.Employee, error) {
			assert.Equal(t, "555-010-0001", phoneNumber)
			return existing, nil
		}
		deps.repo.createFn = func(ctx context.Context, empl *employee.Employee) error {
			t.Fatal("rejoin must not create a second record")
			return nil
		}

		var updated *employee.Employee
		deps.repo.updateFn = func(ctx context.Context, empl *employee.Employee) error {
			updated = empl
			return nil
		}

		resp, err := deps.service.Onboard(ctx, "admin1", onboardRequest())

		assert.NoError(t, err)
		assert.NotNil(t, updated)
		assert.Equal(t, existing.ID, updated.ID)
		assert.Equal(t, "John", updated.FirstName)
		assert.Equal(t, "john.smith@em.com", updated.JobInfo.Email)
		assert.Equal(t, 5, updated.LeaveBalances[domain.LeaveTypeSick])
		assert.Equal(t, 5, resp.LeaveBalances["SICK"])
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative actor is not admin", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		deps.admins.verifyAdminFn = func(ctx context.Context, username string) error {
			assert.Equal(t, "user1", username)
			return usererrors.ErrNotAdmin
		}
		deps.repo.createFn = func(ctx context.Context, empl *employee.Employee) error {
			t.Fatal("non-admin must not create employees")
			return nil
		}

		_, err := deps.service.Onboard(ctx, "user1", onboardRequest())

		assert.ErrorIs(t, err, usererrors.ErrNotAdmin)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative malformed hire date", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		req := onboardRequest()
		req.HireDate = "15/01/2026"

		_, err := deps.service.Onboard(ctx, "admin1", req)

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidHireDate)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative duplicate phone constraint mapped", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.createFn = func(ctx context.Context, empl *employee.Employee) error {
			return errors.New(`ERROR: duplicate key value violates unique constraint "uq_employees_phone_number" (SQLSTATE 23505)`)
		}

		_, err := deps.service.Onboard(ctx, "admin1", onboardRequest())

		assert.ErrorIs(t, err, employeeerrors.ErrPhoneNumberAlreadyExists)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		deps.repo.searchByNameFn = func(ctx context.Context, name string, page, size int) ([]employee.Employee, int64, error) {
			assert.Equal(t, "Smi", name)
			assert.Equal(t, 0, page)
			assert.Equal(t, 10, size)
			return []employee.Employee{
				{ID: uuid.New(), FirstName: "John", LastName: "Smith"},
				{ID: uuid.New(), FirstName: "Jane", LastName: "Smithers"},
			}, 2, nil
		}

		resp, total, err := deps.service.Search(ctx, employee.SearchEmployeesRequest{Name: "Smi", Page: 0, Size: 10})

		assert.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, resp, 2)
		assert.Equal(t, "Smith", resp[0].LastName)
	})

	t.Run("negative name too short", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		deps.repo.searchByNameFn = func(ctx context.Context, name string, page, size int) ([]employee.Employee, int64, error) {
			t.Fatal("repository must not be hit for a short search term")
			return nil, 0, nil
		}

		_, _, err := deps.service.Search(ctx, employee.SearchEmployeesRequest{Name: "Sm", Page: 0, Size: 10})

		assert.ErrorIs(t, err, employeeerrors.ErrSearchTermTooShort)
	})

	t.Run("negative repo error", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		deps.repo.searchByNameFn = func(ctx context.Context, name string, page, size int) ([]employee.Employee, int64, error) {
			return nil, 0, errors.New("db error")
		}

		_, _, err := deps.service.Search(ctx, employee.SearchEmployeesRequest{Name: "Smi", Page: 0, Size: 10})

		assert.Error(t, err)
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*employee.Employee, error) {
			return &employee.Employee{
				ID:            id,
				FirstName:     "John",
				LastName:      "Smith",
				LeaveBalances: employee.LeaveBalances{domain.LeaveTypeVacation: 12},
			}, nil
		}

		resp, err := deps.service.GetByID(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, id.String(), resp.ID)
		assert.Equal(t, 12, resp.LeaveBalances["VACATION"])
	})

	t.Run("negative malformed id", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*employee.Employee, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.GetByID(ctx, uuid.New().String())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}
