package donations

import (
	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/sharebox/internal/features/auth"
)

// RegisterRoutes mounts the donation endpoints under an authenticated group
func RegisterRoutes(router *gin.RouterGroup, service *Service) {
	handler := NewHandler(service)

	donations := router.Group("/donations")
	{
		donations.GET("/categories", handler.ListCategories)
		donations.POST("", auth.RequireRole(auth.UserTypeDonor), handler.CreateDonation)
		donations.GET("/mine", auth.RequireRole(auth.UserTypeDonor), handler.ListMyDonations)
		donations.GET("", auth.RequireRole(auth.UserTypeReceiver, auth.UserTypeAdmin), handler.BrowseDonations)
		donations.GET("/:id", handler.GetDonation)
		donations.PATCH("/:id/status", auth.RequireRole(auth.UserTypeReceiver), handler.UpdateStatus)
		donations.DELETE("/:id", auth.RequireRole(auth.UserTypeDonor, auth.UserTypeAdmin), handler.DeleteDonation)
	}
}
