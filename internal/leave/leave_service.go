package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/alechulkin/modfac/internal/domain"
	"github.com/alechulkin/modfac/internal/employee"
	"github.com/alechulkin/modfac/internal/events"
	leaveerrors "github.com/alechulkin/modfac/internal/leave/errors"
	"github.com/alechulkin/modfac/internal/messaging/kafka"
	"github.com/alechulkin/modfac/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// captureRetries bounds the optimistic retry loop when two captures for
// the same employee race on the balance version.
const captureRetries = 3

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Capture(ctx context.Context, req CaptureLeaveRequest) (LeaveResponse, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	GetAllByEmployee(ctx context.Context, employeeID string) ([]LeaveResponse, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	employeeRepo employee.Repository
	outbox       kafka.OutboxRepository
	logger       *zap.Logger
}

func NewService(db *sql.DB, repo Repository, employeeRepo employee.Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, employeeRepo, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	employeeRepo employee.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:           db,
		repo:         repo,
		employeeRepo: employeeRepo,
		outbox:       outboxRepo,
		logger:       l,
	}
}

// Capture validates and records one leave request: the claimed approver
// must be the employee's manager-of-record and the balance for the leave
// type must cover the inclusive day span. The Leave insert and the
// balance decrement commit together or not at all; a version conflict on
// the balance rolls the attempt back and retries from a fresh read.
func (s *service) Capture(ctx context.Context, req CaptureLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("capture leave requested",
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	parsed, err := validateCaptureRequest(req)
	if err != nil {
		s.logger.Warn("capture leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	var resp LeaveResponse
	for attempt := 1; attempt <= captureRetries; attempt++ {
		resp, err = s.captureOnce(ctx, req, parsed)
		if errors.Is(err, leaveerrors.ErrConcurrentBalanceUpdate) {
			s.logger.Warn("capture leave balance version conflict, retrying",
				zap.String("employee_id", req.EmployeeID),
				zap.Int("attempt", attempt),
			)
			continue
		}
		break
	}
	if err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("capture leave success",
		zap.String("leave_id", resp.ID),
		zap.String("employee_id", resp.EmployeeID),
		zap.Int("total_days", resp.TotalDays),
		zap.Int("remaining_balance", resp.RemainingBalance),
	)
	return resp, nil
}

func (s *service) captureOnce(ctx context.Context, req CaptureLeaveRequest, parsed capturedDates) (LeaveResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("capture leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	employeeTx := s.employeeRepo.WithTx(tx)

	empl, err := employeeTx.FindByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrEmployeeNotFound
		}
		s.logger.Error("capture leave employee lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	managerOfRecord := empl.ManagerOfRecord()
	if managerOfRecord != parsed.approvedBy {
		s.logger.Warn("capture leave approver mismatch",
			zap.String("employee_id", req.EmployeeID),
			zap.String("manager_of_record", managerOfRecord.String()),
			zap.String("approved_by", parsed.approvedBy.String()),
		)
		return LeaveResponse{}, leaveerrors.ErrNotApprovedByManager
	}

	leaveDays := LeaveDays(parsed.startDate, parsed.endDate)
	leaveType := domain.LeaveType(req.LeaveType)

	newBalances, err := empl.LeaveBalances.Debit(leaveType, leaveDays)
	if err != nil {
		s.logger.Warn("capture leave insufficient balance",
			zap.String("employee_id", req.EmployeeID),
			zap.String("leave_type", req.LeaveType),
			zap.Int("requested_days", leaveDays),
			zap.Int("available", empl.LeaveBalances.BalanceFor(leaveType)),
		)
		return LeaveResponse{}, err
	}

	status := domain.LeaveStatus(req.Status)
	if status == "" {
		status = domain.LeaveStatusPending
	}

	l := &Leave{
		ID:         uuid.New(),
		EmployeeID: empl.ID,
		LeaveType:  leaveType,
		StartDate:  parsed.startDate,
		EndDate:    parsed.endDate,
		TotalDays:  leaveDays,
		Reason:     req.Reason,
		Status:     status,
		ApprovedBy: managerOfRecord,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("capture leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	applied, err := employeeTx.UpdateLeaveBalances(ctx, empl.ID.String(), newBalances, empl.Version)
	if err != nil {
		s.logger.Error("capture leave balance persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !applied {
		// Another capture won the version race; the deferred rollback
		// discards the Leave insert.
		return LeaveResponse{}, leaveerrors.ErrConcurrentBalanceUpdate
	}

	if s.outbox != nil {
		rid := contextutil.GetRequestID(ctx)
		event := events.LeaveCapturedEvent{
			EventType:  events.LeaveCapturedType,
			RequestID:  rid,
			LeaveID:    l.ID.String(),
			EmployeeID: empl.ID.String(),
			LeaveType:  string(leaveType),
			TotalDays:  leaveDays,
			OccurredAt: time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.Error(err))
			return LeaveResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "leave",
			AggregateID:   l.ID.String(),
			EventType:     events.LeaveCapturedType,
			Topic:         events.LeaveLifecycleTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("capture leave outbox persist failed",
				zap.String("leave_id", l.ID.String()),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("capture leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	return mapToResponse(*l, newBalances.BalanceFor(leaveType)), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(*l, 0), nil
}

func (s *service) GetAllByEmployee(ctx context.Context, employeeID string) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}

	leaves, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l, 0)
	}
	return resp, nil
}

type capturedDates struct {
	startDate  time.Time
	endDate    time.Time
	approvedBy uuid.UUID
}

func validateCaptureRequest(req CaptureLeaveRequest) (capturedDates, error) {
	if !domain.LeaveType(req.LeaveType).Valid() {
		return capturedDates{}, leaveerrors.ErrInvalidLeaveType
	}

	approvedBy, err := uuid.Parse(req.ApprovedByID)
	if err != nil {
		return capturedDates{}, leaveerrors.ErrInvalidApproverID
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return capturedDates{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return capturedDates{}, err
	}
	if startDate.After(endDate) {
		return capturedDates{}, leaveerrors.ErrInvalidDateRange
	}

	return capturedDates{
		startDate:  startDate,
		endDate:    endDate,
		approvedBy: approvedBy,
	}, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l Leave, remaining int) LeaveResponse {
	return LeaveResponse{
		ID:               l.ID.String(),
		EmployeeID:       l.EmployeeID.String(),
		LeaveType:        string(l.LeaveType),
		StartDate:        l.StartDate.Format("2006-01-02"),
		EndDate:          l.EndDate.Format("2006-01-02"),
		TotalDays:        l.TotalDays,
		Reason:           l.Reason,
		Status:           string(l.Status),
		ApprovedBy:       l.ApprovedBy.String(),
		RemainingBalance: remaining,
	}
}
