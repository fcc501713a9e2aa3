package pickups

import (
	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/sharebox/internal/features/auth"
)

// RegisterRoutes mounts pickup scheduling under an authenticated group
func RegisterRoutes(router *gin.RouterGroup, service *Service) {
	handler := NewHandler(service)

	donations := router.Group("/donations/:id/pickups")
	{
		donations.POST("", auth.RequireRole(auth.UserTypeReceiver), handler.CreatePickup)
		donations.GET("", handler.ListPickups)
	}
}
