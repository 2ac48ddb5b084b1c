package main

import (
	"context"
	"os"

	"github.com/alechulkin/modfac/internal/employee"
	"github.com/alechulkin/modfac/internal/leave"
	"github.com/alechulkin/modfac/internal/seed"
	"github.com/alechulkin/modfac/internal/shared/apperror"
	"github.com/alechulkin/modfac/internal/shared/connection"
	"github.com/alechulkin/modfac/internal/user"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		logger.Fatal("connect database failed", zap.Error(err))
	}

	generator := seed.NewGenerator(
		employee.NewRepository(gormDB),
		leave.NewRepository(gormDB),
		user.NewRepository(gormDB),
		logger,
	)

	if err := generator.Run(context.Background()); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
}
