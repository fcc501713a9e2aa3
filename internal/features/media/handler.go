package media

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/sharebox/internal/pkg/cloudinary"
	"github.com/xyz-asif/sharebox/internal/pkg/logger"
	"github.com/xyz-asif/sharebox/internal/pkg/response"
)

// MaxFilesPerRequest caps how many images one upload may carry
const MaxFilesPerRequest = 5

const donationFolder = "donations"

// Uploader stores an image and returns where it lives
type Uploader interface {
	UploadImage(ctx context.Context, file io.Reader, subfolder string) (*cloudinary.UploadResult, error)
}

type UploadResponse struct {
	URLs   []string                   `json:"urls"`
	Images []*cloudinary.UploadResult `json:"images"`
}

type Handler struct {
	uploader Uploader
}

func NewHandler(uploader Uploader) *Handler {
	return &Handler{uploader: uploader}
}

// @Summary Upload donation images
// @Description Upload one image as "file" or several as "files". JPG, PNG, GIF, WEBP or SVG, up to 5 MB each.
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file false "Image to upload"
// @Param files formData file false "Images to upload"
// @Success 201 {object} response.APIResponse{data=UploadResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 503 {object} response.APIResponse
// @Router /media/images [post]
func (h *Handler) UploadImages(c *gin.Context) {
	if h.uploader == nil {
		response.ServiceUnavailable(c, "Image uploads are not configured", "UPLOADS_DISABLED")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "Multipart form is required", "MISSING_FILE")
		return
	}

	headers := append([]*multipart.FileHeader{}, form.File["file"]...)
	headers = append(headers, form.File["files"]...)
	if len(headers) == 0 {
		response.BadRequest(c, "File is required", "MISSING_FILE")
		return
	}
	if len(headers) > MaxFilesPerRequest {
		response.BadRequest(c, "Too many files in one request", "TOO_MANY_FILES")
		return
	}

	for _, header := range headers {
		if err := cloudinary.ValidateImageFile(header); err != nil {
			response.BadRequest(c, err.Error(), "INVALID_FILE")
			return
		}
	}

	out := UploadResponse{
		URLs:   make([]string, 0, len(headers)),
		Images: make([]*cloudinary.UploadResult, 0, len(headers)),
	}
	for _, header := range headers {
		result, err := h.upload(c.Request.Context(), header)
		if err != nil {
			logger.L().Error().Err(err).Str("filename", header.Filename).Msg("image upload failed")
			response.InternalServerError(c, "Failed to upload file", "UPLOAD_FAILED")
			return
		}
		out.URLs = append(out.URLs, result.URL)
		out.Images = append(out.Images, result)
	}

	response.Created(c, out, "Images uploaded")
}

func (h *Handler) upload(ctx context.Context, header *multipart.FileHeader) (*cloudinary.UploadResult, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return h.uploader.UploadImage(ctx, file, donationFolder)
}
