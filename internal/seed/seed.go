package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/alechulkin/modfac/internal/domain"
	"github.com/alechulkin/modfac/internal/employee"
	"github.com/alechulkin/modfac/internal/leave"
	"github.com/alechulkin/modfac/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	EmployeesNumber = 20
	LeavesPerEmpl   = 20
	NumUsersToAdd   = 10
	NumAdminsToAdd  = 10
)

var (
	firstNames = []string{"John", "Emily", "Michael", "Sarah", "William", "Olivia", "James", "Ava", "Robert", "Isabella"}
	lastNames  = []string{"Smith", "Johnson", "Williams", "Jones", "Brown", "Davis", "Miller", "Wilson", "Moore", "Taylor"}
	streets    = []string{"Main St", "Park Ave", "Elm St", "Oak St", "Maple St", "Pine St", "Cedar St", "Spruce St", "Fir St", "Cypress St"}
	cities     = []string{"New York", "Los Angeles", "Chicago", "Houston", "Phoenix", "Philadelphia", "San Antonio", "San Diego", "Dallas", "San Jose"}
	regions    = []string{"NY", "CA", "IL", "TX", "AZ", "PA", "TX", "CA", "TX", "CA"}
	zipCodes   = []string{"10001", "90001", "60001", "77001", "85001", "19101", "78201", "92101", "75201", "95101"}
	countries  = []string{"France", "US", "UK", "Tuvalu", "Lesotho", "Kyrgyzstan", "Nepal", "Luxembourg", "Dominica", "Martinica"}
)

// Generator fills the database with demo data: a chain of employees
// where each reports to the previously created one, a batch of leaves
// per employee, and numbered user/admin accounts. Existing usernames
// are skipped so reruns stay idempotent.
type Generator struct {
	employeeRepo employee.Repository
	leaveRepo    leave.Repository
	userRepo     user.Repository
	rng          *rand.Rand
	logger       *zap.Logger
}

func NewGenerator(
	employeeRepo employee.Repository,
	leaveRepo leave.Repository,
	userRepo user.Repository,
	logger ...*zap.Logger,
) *Generator {
	l := zap.L().Named("seed")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("seed")
	}
	return &Generator{
		employeeRepo: employeeRepo,
		leaveRepo:    leaveRepo,
		userRepo:     userRepo,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:       l,
	}
}

func (g *Generator) Run(ctx context.Context) error {
	empls, err := g.generateEmployees(ctx, EmployeesNumber)
	if err != nil {
		return err
	}

	for _, e := range empls {
		for j := 0; j < LeavesPerEmpl; j++ {
			if err := g.generateLeave(ctx, e); err != nil {
				return err
			}
		}
	}

	if err := g.generateUsers(ctx); err != nil {
		return err
	}

	g.logger.Info("seed finished",
		zap.Int("employees", len(empls)),
		zap.Int("leaves_per_employee", LeavesPerEmpl),
	)
	return nil
}

// generateEmployees creates a management chain: the first employee has
// no manager, every later one reports to its predecessor.
func (g *Generator) generateEmployees(ctx context.Context, n int) ([]*employee.Employee, error) {
	empls := make([]*employee.Employee, 0, n)

	var managerID *uuid.UUID
	for i := 0; i < n; i++ {
		firstName := firstNames[g.rng.Intn(len(firstNames))]
		lastName := lastNames[g.rng.Intn(len(lastNames))]

		balances := employee.LeaveBalances{}
		for _, t := range domain.AllLeaveTypes() {
			balances[t] = g.rng.Intn(31)
		}

		e := &employee.Employee{
			ID:          uuid.New(),
			FirstName:   firstName,
			LastName:    lastName,
			PhoneNumber: g.phoneNumber(),
			Address:     g.address(),
			JobInfo: employee.JobInfo{
				Email:     fmt.Sprintf("%s.%s@em.com", strings.ToLower(firstName), strings.ToLower(lastName)),
				HireDate:  time.Now(),
				JobID:     fmt.Sprintf("%d", g.rng.Intn(1000)),
				Salary:    g.rng.Intn(100000),
				ManagerID: managerID,
			},
			LeaveBalances: balances,
		}

		if err := g.employeeRepo.Create(ctx, e); err != nil {
			return nil, err
		}

		empls = append(empls, e)
		id := e.ID
		managerID = &id
	}

	return empls, nil
}

func (g *Generator) generateLeave(ctx context.Context, e *employee.Employee) error {
	status := g.randomStatus()

	startDate := g.randomDateAfter(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	endDate := g.randomDateAfter(startDate)

	l := &leave.Leave{
		ID:         uuid.New(),
		EmployeeID: e.ID,
		LeaveType:  g.randomLeaveType(),
		StartDate:  startDate,
		EndDate:    endDate,
		TotalDays:  leave.LeaveDays(startDate, endDate),
		Status:     status,
		ApprovedBy: e.ManagerOfRecord(),
	}

	return g.leaveRepo.Create(ctx, l)
}

func (g *Generator) generateUsers(ctx context.Context) error {
	if err := g.addUsersWithRole(ctx, domain.RoleUser, "user", "password", NumUsersToAdd); err != nil {
		return err
	}
	return g.addUsersWithRole(ctx, domain.RoleAdmin, "admin", "adminpass", NumAdminsToAdd)
}

func (g *Generator) addUsersWithRole(ctx context.Context, role domain.Role, usernamePrefix, passwordPrefix string, count int) error {
	added, skipped := 0, 0

	for i := 1; i <= count; i++ {
		username := fmt.Sprintf("%s%d", usernamePrefix, i)

		if _, err := g.userRepo.FindByUsername(ctx, username); err == nil {
			skipped++
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(fmt.Sprintf("%s%d", passwordPrefix, i)), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		u := &user.User{
			ID:       uuid.New(),
			Username: username,
			Password: string(hashed),
			Role:     role,
		}
		if err := g.userRepo.Create(ctx, u); err != nil {
			g.logger.Warn("seed user skipped", zap.String("username", username), zap.Error(err))
			skipped++
			continue
		}
		added++
	}

	g.logger.Info("seed users",
		zap.String("role", string(role)),
		zap.Int("added", added),
		zap.Int("skipped", skipped),
	)
	return nil
}

func (g *Generator) address() employee.Address {
	return employee.Address{
		Street:   streets[g.rng.Intn(len(streets))],
		City:     cities[g.rng.Intn(len(cities))],
		Region:   regions[g.rng.Intn(len(regions))],
		ZipCode:  zipCodes[g.rng.Intn(len(zipCodes))],
		Country:  countries[g.rng.Intn(len(countries))],
		Block:    fmt.Sprintf("%c%d", 'A'+rune(g.rng.Intn(26)), g.rng.Intn(20)+1),
		Building: fmt.Sprintf("%d", g.rng.Intn(200)+1),
		Floor:    g.rng.Intn(40),
	}
}

func (g *Generator) phoneNumber() string {
	return fmt.Sprintf("%03d-%03d-%04d", g.rng.Intn(1000), g.rng.Intn(1000), g.rng.Intn(10000))
}

func (g *Generator) randomLeaveType() domain.LeaveType {
	types := domain.AllLeaveTypes()
	return types[g.rng.Intn(len(types))]
}

func (g *Generator) randomStatus() domain.LeaveStatus {
	statuses := []domain.LeaveStatus{
		domain.LeaveStatusPending,
		domain.LeaveStatusApproved,
		domain.LeaveStatusRejected,
	}
	return statuses[g.rng.Intn(len(statuses))]
}

func (g *Generator) randomDateAfter(from time.Time) time.Time {
	return from.AddDate(0, 0, g.rng.Intn(30))
}
