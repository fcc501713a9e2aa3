package auth

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the auth endpoints. authMiddleware guards the
// routes that need a signed-in user.
func RegisterRoutes(router *gin.RouterGroup, service *Service, authMiddleware gin.HandlerFunc) {
	handler := NewHandler(service)

	auth := router.Group("/auth")
	{
		auth.POST("/register", handler.Register)
		auth.POST("/login", handler.Login)
		auth.POST("/firebase", handler.FirebaseLogin)
		auth.POST("/google", handler.GoogleLogin)

		auth.GET("/me", authMiddleware, handler.GetMe)
		auth.PATCH("/profile", authMiddleware, handler.UpdateProfile)
	}
}
