package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	employeeerrors "github.com/alechulkin/modfac/internal/employee/errors"
	"github.com/alechulkin/modfac/internal/events"
	"github.com/alechulkin/modfac/internal/messaging/kafka"
	"github.com/alechulkin/modfac/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	SearchCacheKeyPrefix = "employees:search:"
	searchCacheTTL       = 10 * time.Minute
)

func GetSearchCacheKey(name string, page, size int) string {
	return fmt.Sprintf("%s%s:%d:%d", SearchCacheKeyPrefix, name, page, size)
}

// AdminVerifier guards onboarding. Implemented by the user service.
type AdminVerifier interface {
	VerifyAdmin(ctx context.Context, username string) error
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Onboard(ctx context.Context, actorUsername string, req OnboardEmployeeRequest) (EmployeeResponse, error)
	Search(ctx context.Context, req SearchEmployeesRequest) ([]EmployeeResponse, int64, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	admins AdminVerifier
	outbox kafka.OutboxRepository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, admins AdminVerifier, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, admins, nil, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	admins AdminVerifier,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		admins: admins,
		outbox: outboxRepo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

// Onboard resolves the request to exactly one persisted employee: an
// existing record when the phone number is already known (rejoin), a new
// record otherwise. Only admins may call it.
func (s *service) Onboard(ctx context.Context, actorUsername string, req OnboardEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("onboard employee requested",
		zap.String("request_id", rid),
		zap.String("actor", actorUsername),
		zap.String("phone_number", req.PhoneNumber),
	)

	if err := s.admins.VerifyAdmin(ctx, actorUsername); err != nil {
		s.logger.Warn("onboard employee rejected, actor is not admin",
			zap.String("actor", actorUsername),
			zap.Error(err),
		)
		return EmployeeResponse{}, err
	}

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		s.logger.Warn("onboard employee invalid hire_date",
			zap.String("hire_date", req.HireDate),
			zap.Error(err),
		)
		return EmployeeResponse{}, employeeerrors.ErrInvalidHireDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("onboard employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindByPhoneNumber(ctx, req.PhoneNumber)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("onboard employee phone lookup failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	managerID := s.resolveManager(ctx, qtx, req.ManagerID)

	var empl *Employee
	eventType := events.EmployeeOnboardedType
	if existing != nil {
		// Rejoin: job info and address are overwritten, the balance map
		// is left exactly as it was.
		s.logger.Info("employee is rejoining, updating record",
			zap.String("employee_id", existing.ID.String()),
		)
		existing.FirstName = req.FirstName
		existing.LastName = req.LastName
		applyJobInfo(existing, req, hireDate, managerID)
		applyAddress(existing, req)

		if err := qtx.Update(ctx, existing); err != nil {
			s.logger.Error("onboard employee update failed", zap.Error(err))
			return EmployeeResponse{}, mapRepositoryError(err)
		}
		empl = existing
		eventType = events.EmployeeRejoinedType
	} else {
		empl = &Employee{
			ID:            uuid.New(),
			FirstName:     req.FirstName,
			LastName:      req.LastName,
			PhoneNumber:   req.PhoneNumber,
			LeaveBalances: ZeroBalances(),
		}
		applyJobInfo(empl, req, hireDate, managerID)
		applyAddress(empl, req)

		if err := qtx.Create(ctx, empl); err != nil {
			s.logger.Error("onboard employee persist failed", zap.Error(err))
			return EmployeeResponse{}, mapRepositoryError(err)
		}
	}

	if s.outbox != nil {
		event := events.EmployeeOnboardedEvent{
			EventType:  eventType,
			RequestID:  rid,
			EmployeeID: empl.ID.String(),
			ActorName:  actorUsername,
			OccurredAt: time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return EmployeeResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "employee",
			AggregateID:   empl.ID.String(),
			EventType:     eventType,
			Topic:         events.EmployeeLifecycleTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("onboard employee outbox persist failed",
				zap.String("employee_id", empl.ID.String()),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("onboard employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateSearchCache(ctx)

	s.logger.Info("onboard employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
		zap.String("event_type", eventType),
	)

	return mapToResponse(*empl), nil
}

// invalidateSearchCache drops every cached search page after an onboard
// so a new or rejoined employee shows up immediately. Best effort; a
// failed delete falls back to the TTL.
func (s *service) invalidateSearchCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}

	iter := s.rdb.Scan(ctx, 0, SearchCacheKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn("invalidate search cache entry failed",
				zap.String("key", iter.Val()),
				zap.Error(err),
			)
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn("invalidate search cache scan failed", zap.Error(err))
	}
}

// resolveManager looks up the supplied manager id. A missing or malformed
// id degrades to "no manager" instead of failing the onboarding call.
func (s *service) resolveManager(ctx context.Context, repo Repository, managerID string) *uuid.UUID {
	if managerID == "" {
		return nil
	}

	id, err := uuid.Parse(managerID)
	if err != nil {
		s.logger.Warn("onboard employee manager id malformed, treating as absent",
			zap.String("manager_id", managerID),
		)
		return nil
	}

	manager, err := repo.FindByID(ctx, id.String())
	if err != nil {
		s.logger.Warn("onboard employee manager not found, treating as absent",
			zap.String("manager_id", managerID),
			zap.Error(err),
		)
		return nil
	}

	return &manager.ID
}

func (s *service) Search(ctx context.Context, req SearchEmployeesRequest) ([]EmployeeResponse, int64, error) {
	s.logger.Debug("search employees requested",
		zap.String("name", req.Name),
		zap.Int("page", req.Page),
		zap.Int("size", req.Size),
	)

	// Binding enforces this at the HTTP edge; the service repeats the
	// check for callers that bypass it.
	if len(req.Name) < 3 {
		return nil, 0, employeeerrors.ErrSearchTermTooShort
	}

	cacheKey := GetSearchCacheKey(req.Name, req.Page, req.Size)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var entry searchCacheEntry
			if json.Unmarshal([]byte(cached), &entry) == nil {
				return entry.Results, entry.Total, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		empls, total, err := s.repo.SearchByName(ctx, req.Name, req.Page, req.Size)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		entry := searchCacheEntry{
			Results: mapToListResponse(empls),
			Total:   total,
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(entry); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, searchCacheTTL)
			}
		}

		return entry, nil
	})
	if err != nil {
		return nil, 0, err
	}

	entry := v.(searchCacheEntry)
	return entry.Results, entry.Total, nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested", zap.String("employee_id", id))

	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("get employee by id failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

type searchCacheEntry struct {
	Results []EmployeeResponse `json:"results"`
	Total   int64              `json:"total"`
}

func applyJobInfo(empl *Employee, req OnboardEmployeeRequest, hireDate time.Time, managerID *uuid.UUID) {
	empl.JobInfo.Email = req.Email
	empl.JobInfo.HireDate = hireDate
	empl.JobInfo.JobID = req.JobID
	empl.JobInfo.Salary = req.Salary
	empl.JobInfo.ManagerID = managerID
}

func applyAddress(empl *Employee, req OnboardEmployeeRequest) {
	empl.Address.Street = req.Street
	empl.Address.City = req.City
	empl.Address.Region = req.Region
	empl.Address.Country = req.Country
	empl.Address.ZipCode = req.ZipCode
	empl.Address.Block = req.Block
	empl.Address.Building = req.Building
	empl.Address.Apartment = req.Apartment
	empl.Address.Floor = req.Floor
}

func mapToResponse(empl Employee) EmployeeResponse {
	balances := make(map[string]int, len(empl.LeaveBalances))
	for t, v := range empl.LeaveBalances {
		balances[string(t)] = v
	}

	resp := EmployeeResponse{
		ID:          empl.ID.String(),
		FirstName:   empl.FirstName,
		LastName:    empl.LastName,
		PhoneNumber: empl.PhoneNumber,
		Address: AddressResponse{
			Street:    empl.Address.Street,
			City:      empl.Address.City,
			Region:    empl.Address.Region,
			Country:   empl.Address.Country,
			ZipCode:   empl.Address.ZipCode,
			Block:     empl.Address.Block,
			Building:  empl.Address.Building,
			Apartment: empl.Address.Apartment,
			Floor:     empl.Address.Floor,
		},
		JobInfo: JobInfoResponse{
			Email:    empl.JobInfo.Email,
			HireDate: empl.JobInfo.HireDate.Format("2006-01-02"),
			JobID:    empl.JobInfo.JobID,
			Salary:   empl.JobInfo.Salary,
		},
		LeaveBalances: balances,
	}
	if empl.JobInfo.ManagerID != nil {
		v := empl.JobInfo.ManagerID.String()
		resp.JobInfo.ManagerID = &v
	}
	return resp
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		resp[i] = mapToResponse(e)
	}
	return resp
}
