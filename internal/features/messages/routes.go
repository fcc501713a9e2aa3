package messages

import (
	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/sharebox/internal/features/auth"
)

func RegisterRoutes(router *gin.RouterGroup, service *Service) {
	handler := NewHandler(service)

	messages := router.Group("/messages")
	{
		messages.POST("", auth.RequireRole(auth.UserTypeDonor, auth.UserTypeReceiver), handler.SendMessage)
		messages.GET("/inbox", handler.Inbox)
		messages.GET("/unread-count", handler.UnreadCount)
		messages.PATCH("/:id/read", handler.MarkRead)
	}
}
