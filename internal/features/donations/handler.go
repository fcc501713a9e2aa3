package donations

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

// CreateDonation godoc
// @Summary Create a donation
// @Description List an item. Food may carry an expiry time, which must be in the future.
// @Tags donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateDonationRequest true "Donation"
// @Success 201 {object} response.APIResponse{data=DonationView}
// @Failure 400 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /donations [post]
func (h *Handler) CreateDonation(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	var req CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_JSON")
		return
	}

	donation, err := h.service.Create(c.Request.Context(), user, &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Created(c, donation, "Donation created")
}

// ListMyDonations godoc
// @Summary List my donations
// @Description The donor's donations, newest first, with pickup requests and receiver profiles
// @Tags donations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse{data=[]DonationView}
// @Failure 401 {object} response.APIResponse
// @Router /donations/mine [get]
func (h *Handler) ListMyDonations(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	items, err := h.service.ListByDonor(c.Request.Context(), user)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, items)
}

// BrowseDonations godoc
// @Summary Browse donations
// @Description Receiver listing. received and rejected only return donations the caller acted on.
// @Tags donations
// @Produce json
// @Security BearerAuth
// @Param status query string false "All, pending, received or rejected (default All)"
// @Param category query string false "Category filter"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Items per page (default 20, max 100)"
// @Success 200 {object} response.APIResponse{data=response.PaginatedData{items=[]DonationView}}
// @Failure 400 {object} response.APIResponse
// @Router /donations [get]
func (h *Handler) BrowseDonations(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	var query BrowseQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters", "INVALID_QUERY")
		return
	}

	items, total, page, err := h.service.Browse(c.Request.Context(), user, &query)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Paginated(c, items, total, page.Limit, page.Page)
}

// GetDonation godoc
// @Summary Get a donation
// @Tags donations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation ID"
// @Success 200 {object} response.APIResponse{data=DonationView}
// @Failure 404 {object} response.APIResponse
// @Router /donations/{id} [get]
func (h *Handler) GetDonation(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid donation ID", "INVALID_ID")
		return
	}

	donation, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, donation)
}

// UpdateStatus godoc
// @Summary Accept or reject a donation
// @Description Moves a pending donation to received or rejected. Expired food cannot be received.
// @Tags donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation ID"
// @Param request body UpdateStatusRequest true "Action"
// @Success 200 {object} response.APIResponse{data=DonationView}
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /donations/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
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

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "action must be received or rejected", "INVALID_JSON")
		return
	}

	donation, err := h.service.UpdateStatus(c.Request.Context(), user, id, req.Action)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, donation, "Donation "+req.Action)
}

// DeleteDonation godoc
// @Summary Delete a donation
// @Description Donors delete their own donations, admins any. Subscribers get a DELETE event.
// @Tags donations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation ID"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /donations/{id} [delete]
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

	if err := h.service.Delete(c.Request.Context(), user, id); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, gin.H{"id": id.Hex()}, "Donation deleted")
}

// ListCategories godoc
// @Summary List donation categories
// @Tags donations
// @Produce json
// @Success 200 {object} response.APIResponse{data=[]string}
// @Router /donations/categories [get]
func (h *Handler) ListCategories(c *gin.Context) {
	response.Success(c, Categories)
}
