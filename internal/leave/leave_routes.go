package leave

import (
	"github.com/alechulkin/modfac/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	leaves.Use(middleware.ContextLogger(logger))
	{
		if rdb != nil {
			leaves.POST("",
				middleware.Idempotency(rdb),
				middleware.RateLimitByUser(1, 5),
				handler.Capture,
			)
		} else {
			leaves.POST("",
				middleware.RateLimitByUser(1, 5),
				handler.Capture,
			)
		}

		leaves.GET("",
			middleware.RateLimitByUser(3, 10),
			handler.GetAllByEmployee,
		)

		leaves.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			handler.GetByID,
		)
	}
}
