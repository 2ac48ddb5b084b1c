package app

import (
	"database/sql"

	"github.com/alechulkin/modfac/internal/auth"
	"github.com/alechulkin/modfac/internal/employee"
	"github.com/alechulkin/modfac/internal/leave"
	"github.com/alechulkin/modfac/internal/messaging/kafka"
	"github.com/alechulkin/modfac/internal/middleware"
	"github.com/alechulkin/modfac/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	userService := user.NewService(userRepo, logger)
	authService := auth.NewService(userRepo, userService, logger)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, userService, outboxRepo, rdb, logger)
	leaveService := leave.NewServiceWithOutbox(db, leaveRepo, employeeRepo, outboxRepo, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	leaveHandler := leave.NewHandlerWithCache(leaveService, rdb, logger)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())

	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		employee.RegisterRoutes(api, employeeHandler, logger)
		leave.RegisterRoutes(api, leaveHandler, rdb, logger)
	}

	return nil
}
