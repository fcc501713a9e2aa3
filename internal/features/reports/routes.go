package reports

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts report filing on the authenticated group and
// moderation on the admin group
func RegisterRoutes(router *gin.RouterGroup, admin *gin.RouterGroup, service *Service) {
	handler := NewHandler(service)

	router.POST("/reports", handler.CreateReport)

	admin.GET("/reports", handler.ListReports)
	admin.PATCH("/reports/:id/status", handler.UpdateReportStatus)
	admin.POST("/users/:id/ban", handler.BanUser)
	admin.DELETE("/users/:id/ban", handler.UnbanUser)
}
