package media

import (
	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/sharebox/internal/features/auth"
)

// RegisterRoutes mounts uploads under an authenticated group. A nil
// uploader leaves the endpoint answering 503.
func RegisterRoutes(router *gin.RouterGroup, uploader Uploader) {
	handler := NewHandler(uploader)

	media := router.Group("/media")
	{
		media.POST("/images", auth.RequireRole(auth.UserTypeDonor, auth.UserTypeAdmin), handler.UploadImages)
	}
}
