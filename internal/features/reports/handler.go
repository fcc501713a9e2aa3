package reports

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/sharebox/internal/features/auth"
	"github.com/xyz-asif/sharebox/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// @Summary Report a user
// @Description Flag another user for moderation. The reason must be at least 10 characters.
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateReportRequest true "Report details"
// @Success 201 {object} response.APIResponse{data=UserReport}
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /reports [post]
func (h *Handler) CreateReport(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_FAILED")
		return
	}

	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request", "INVALID_JSON")
		return
	}

	report, err := h.service.Create(c.Request.Context(), user, &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Created(c, report, "Report submitted")
}

// @Summary List user reports
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved, rejected or banned"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Items per page (default 20, max 100)"
// @Success 200 {object} response.APIResponse{data=response.PaginatedData{items=[]ReportView}}
// @Failure 403 {object} response.APIResponse
// @Router /admin/reports [get]
func (h *Handler) ListReports(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters", "INVALID_QUERY")
		return
	}

	items, total, page, err := h.service.List(c.Request.Context(), &query)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Paginated(c, items, total, page.Limit, page.Page)
}

// @Summary Approve or reject a report
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param request body UpdateReportStatusRequest true "New status"
// @Success 200 {object} response.APIResponse{data=UserReport}
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /admin/reports/{id}/status [patch]
func (h *Handler) UpdateReportStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid report ID", "INVALID_ID")
		return
	}

	var req UpdateReportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "status must be approved or rejected", "INVALID_JSON")
		return
	}

	report, err := h.service.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, report, "Report "+req.Status)
}

// @Summary Ban a user
// @Description Sets the user's banned flag and marks every report on them banned
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.APIResponse{data=BanResult}
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /admin/users/{id}/ban [post]
func (h *Handler) BanUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID", "INVALID_ID")
		return
	}

	result, err := h.service.Ban(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, result, "User banned")
}

// @Summary Unban a user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.APIResponse{data=BanResult}
// @Failure 404 {object} response.APIResponse
// @Router /admin/users/{id}/ban [delete]
func (h *Handler) UnbanUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID", "INVALID_ID")
		return
	}

	result, err := h.service.Unban(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, result, "User unbanned")
}
