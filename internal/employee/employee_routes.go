package employee

import (
	"github.com/alechulkin/modfac/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	logger *zap.Logger,
) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	employees.Use(middleware.ContextLogger(logger))
	{
		employees.POST("/onboard",
			middleware.RateLimitByUser(0.5, 2),
			handler.Onboard,
		)

		employees.GET("/search",
			middleware.RateLimitByUser(3, 10),
			handler.Search,
		)

		employees.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			handler.GetByID,
		)
	}
}
