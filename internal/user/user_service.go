package user

import (
	"context"
	"errors"

	"github.com/alechulkin/modfac/internal/domain"
	"github.com/alechulkin/modfac/internal/shared/contextutil"
	usererrors "github.com/alechulkin/modfac/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock

type Service interface {
	Register(ctx context.Context, req RegisterUserRequest, role domain.Role) (UserResponse, error)
	GetByUsername(ctx context.Context, username string) (UserResponse, error)
	// VerifyAdmin returns nil only when username names an existing user
	// holding the ADMIN role.
	VerifyAdmin(ctx context.Context, username string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Register(ctx context.Context, req RegisterUserRequest, role domain.Role) (UserResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	if !role.Valid() {
		return UserResponse{}, usererrors.ErrInvalidRole
	}

	l.Info("registering user",
		zap.String("username", req.Username),
		zap.String("role", string(role)),
	)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		l.Error("hash password failed", zap.Error(err))
		return UserResponse{}, err
	}

	u := &User{
		ID:       uuid.New(),
		Username: req.Username,
		Password: string(hashedPassword),
		Role:     role,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		mapped := mapRepoError(err)
		l.Warn("register user failed",
			zap.String("username", req.Username),
			zap.Error(mapped),
		)
		return UserResponse{}, mapped
	}

	l.Info("user registered", zap.String("username", u.Username))
	return mapToResponse(*u), nil
}

func (s *service) GetByUsername(ctx context.Context, username string) (UserResponse, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

func (s *service) VerifyAdmin(ctx context.Context, username string) error {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usererrors.ErrNotAdmin
		}
		return err
	}

	if u.Role != domain.RoleAdmin {
		s.logger.Warn("admin verification rejected",
			zap.String("username", username),
			zap.String("role", string(u.Role)),
		)
		return usererrors.ErrNotAdmin
	}

	return nil
}

func mapToResponse(u User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
