package pickups

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

// CreatePickup godoc
// @Summary Request a pickup
// @Description Propose a pickup time for a pending donation
// @Tags pickups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation ID"
// @Param request body CreatePickupRequest true "Pickup time"
// @Success 201 {object} response.APIResponse{data=PickupRequest}
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /donations/{id}/pickups [post]
func (h *Handler) CreatePickup(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	donationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid donation ID", "INVALID_ID")
		return
	}

	var req CreatePickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_JSON")
		return
	}

	pickup, err := h.service.Create(c.Request.Context(), user, donationID, &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Created(c, pickup, "Pickup requested")
}

// ListPickups godoc
// @Summary List pickup requests
// @Description Pickup requests for a donation, earliest pickup first
// @Tags pickups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation ID"
// @Success 200 {object} response.APIResponse{data=[]PickupRequest}
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /donations/{id}/pickups [get]
func (h *Handler) ListPickups(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	donationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid donation ID", "INVALID_ID")
		return
	}

	pickups, err := h.service.List(c.Request.Context(), user, donationID)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, pickups)
}
