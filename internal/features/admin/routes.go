package admin

import "github.com/gin-gonic/gin"

// RegisterRoutes expects a group already restricted to admins
func RegisterRoutes(admin *gin.RouterGroup, service *Service) {
	handler := NewHandler(service)

	admin.GET("/donations", handler.ListDonations)
	admin.DELETE("/donations/:id", handler.DeleteDonation)
	admin.GET("/stats", handler.GetStats)
	admin.GET("/users", handler.ListUsers)
}
