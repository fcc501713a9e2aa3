package admin

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/sharebox/internal/features/auth"
	"github.com/xyz-asif/sharebox/internal/features/donations"
	"github.com/xyz-asif/sharebox/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// @Summary List all donations
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "All, pending, received or rejected"
// @Param category query string false "Category filter"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Items per page (default 20, max 100)"
// @Success 200 {object} response.APIResponse{data=response.PaginatedData{items=[]donations.DonationView}}
// @Failure 403 {object} response.APIResponse
// @Router /admin/donations [get]
func (h *Handler) ListDonations(c *gin.Context) {
	var query donations.BrowseQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters", "INVALID_QUERY")
		return
	}

	items, total, page, err := h.service.ListDonations(c.Request.Context(), &query)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Paginated(c, items, total, page.Limit, page.Page)
}

// @Summary Delete any donation
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /admin/donations/{id} [delete]
func (h *Handler) DeleteDonation(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid donation ID", "INVALID_ID")
		return
	}

	if err := h.service.DeleteDonation(c.Request.Context(), user, id); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, nil, "Donation deleted")
}

// @Summary Platform statistics
// @Description Totals by status and category plus unique donors and receivers
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse{data=donations.Stats}
// @Router /admin/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, stats)
}

// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param userType query string false "donor, receiver or admin"
// @Param banned query bool false "Filter by banned flag"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Items per page (default 20, max 100)"
// @Success 200 {object} response.APIResponse{data=response.PaginatedData{items=[]UserRow}}
// @Failure 400 {object} response.APIResponse
// @Router /admin/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	var query UserListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters", "INVALID_QUERY")
		return
	}

	rows, total, page, err := h.service.ListUsers(c.Request.Context(), &query)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Paginated(c, rows, total, page.Limit, page.Page)
}
