package auth

import (
	"context"
	"errors"
	"os"
	"time"

	autherrors "github.com/alechulkin/modfac/internal/auth/errors"
	"github.com/alechulkin/modfac/internal/domain"
	"github.com/alechulkin/modfac/internal/user"
	usererrors "github.com/alechulkin/modfac/internal/user/errors"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const accessTokenTTL = time.Hour * 8

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, username, password string) (accessToken string, resp AuthResponse, err error)
	GetMe(ctx context.Context, username string) (AuthResponse, error)
	RegisterUser(ctx context.Context, req user.RegisterUserRequest) (user.UserResponse, error)
	RegisterAdmin(ctx context.Context, req user.RegisterUserRequest) (user.UserResponse, error)
}

type service struct {
	userRepo    user.Repository
	userService user.Service
	logger      *zap.Logger
}

func NewService(userRepo user.Repository, userService user.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{userRepo: userRepo, userService: userService, logger: l}
}

func (s *service) Login(ctx context.Context, username, password string) (string, AuthResponse, error) {
	u, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", AuthResponse{}, autherrors.ErrInvalidCredentials
		}
		return "", AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		s.logger.Warn("login rejected", zap.String("username", username))
		return "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	accessToken, err := generateToken(u.Username, string(u.Role), accessTokenTTL)
	if err != nil {
		s.logger.Error("generate token failed", zap.Error(err))
		return "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("login success", zap.String("username", username))

	return accessToken, AuthResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Role:     string(u.Role),
	}, nil
}

func (s *service) GetMe(ctx context.Context, username string) (AuthResponse, error) {
	u, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, usererrors.ErrUserNotFound
		}
		return AuthResponse{}, err
	}

	return AuthResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Role:     string(u.Role),
	}, nil
}

func (s *service) RegisterUser(ctx context.Context, req user.RegisterUserRequest) (user.UserResponse, error) {
	return s.userService.Register(ctx, req, domain.RoleUser)
}

func (s *service) RegisterAdmin(ctx context.Context, req user.RegisterUserRequest) (user.UserResponse, error) {
	return s.userService.Register(ctx, req, domain.RoleAdmin)
}

func generateToken(username, role string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"username": username,
		"role":     role,
		"exp":      time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
