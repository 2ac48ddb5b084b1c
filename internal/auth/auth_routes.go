package auth

import (
	"github.com/alechulkin/modfac/internal/domain"
	"github.com/alechulkin/modfac/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(0.08, 5), handler.Login)
		auth.POST("/logout", middleware.RateLimitByUser(2, 5), handler.Logout)
		auth.POST("/register", middleware.RateLimitByIP(0.1, 2), handler.Register)
		auth.GET("/me", middleware.AuthMiddleware(), middleware.RateLimitByUser(2, 5), handler.Me)

		auth.POST("/register-admin",
			middleware.AuthMiddleware(),
			middleware.RoleMiddleware(string(domain.RoleAdmin)),
			middleware.RateLimitByUser(1, 2),
			handler.RegisterAdmin,
		)
	}
}
