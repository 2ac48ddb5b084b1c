package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/alechulkin/modfac/internal/domain"
	"github.com/alechulkin/modfac/internal/employee"
	"github.com/alechulkin/modfac/internal/events"
	"github.com/alechulkin/modfac/internal/user"
	usererrors "github.com/alechulkin/modfac/internal/user/errors"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConsumeEmployeeLifecycle provisions a default USER account for every
// freshly onboarded employee. The username is derived from the work email
// local part; rejoins and replays hit the username uniqueness check and
// are skipped.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	userService user.Service,
	employeeRepo employee.Repository,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.EmployeeOnboardedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode employee lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if event.EventType != events.EmployeeOnboardedType {
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		empl, err := employeeRepo.FindByID(ctx, event.EmployeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Warn("onboarded employee no longer exists, skipping",
					zap.String("employee_id", event.EmployeeID),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("load onboarded employee failed",
				zap.String("employee_id", event.EmployeeID),
				zap.Error(err),
			)
			continue
		}

		username := usernameFromEmail(empl.JobInfo.Email)
		_, err = userService.Register(ctx, user.RegisterUserRequest{
			Username: username,
			Password: uuid.NewString(),
		}, domain.RoleUser)
		if err != nil {
			if errors.Is(err, usererrors.ErrUsernameAlreadyExists) {
				log.Warn("account already provisioned for event, skipping",
					zap.String("employee_id", event.EmployeeID),
					zap.String("username", username),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("provision account from employee.onboarded event failed",
				zap.String("employee_id", event.EmployeeID),
				zap.String("username", username),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("account provisioned from employee.onboarded event",
			zap.String("employee_id", event.EmployeeID),
			zap.String("username", username),
		)
	}
}

func usernameFromEmail(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
