package messages

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

// SendMessage godoc
// @Summary Send a message
// @Description Send a note to a user or to the donor of a donation
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendMessageRequest true "Message"
// @Success 201 {object} response.APIResponse{data=Message}
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /messages [post]
func (h *Handler) SendMessage(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_FAILED")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request", "INVALID_JSON")
		return
	}

	msg, err := h.service.Send(c.Request.Context(), user, &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Created(c, msg, "Message sent")
}

// Inbox godoc
// @Summary List received messages
// @Description Newest first. Returned messages are marked read.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Items per page (default 20, max 100)"
// @Param unreadOnly query bool false "Only unread messages"
// @Success 200 {object} response.APIResponse{data=response.PaginatedData{items=[]MessageView}}
// @Failure 401 {object} response.APIResponse
// @Router /messages/inbox [get]
func (h *Handler) Inbox(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_FAILED")
		return
	}

	var query InboxQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters", "INVALID_QUERY")
		return
	}

	items, total, page, err := h.service.Inbox(c.Request.Context(), user, &query)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Paginated(c, items, total, page.Limit, page.Page)
}

// UnreadCount godoc
// @Summary Count unread messages
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse{data=UnreadCountResponse}
// @Router /messages/unread-count [get]
func (h *Handler) UnreadCount(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_FAILED")
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), user)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, UnreadCountResponse{Count: count})
}

// MarkRead godoc
// @Summary Mark a message read
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} response.APIResponse{data=Message}
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /messages/{id}/read [patch]
func (h *Handler) MarkRead(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_FAILED")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid message ID", "INVALID_ID")
		return
	}

	msg, err := h.service.MarkRead(c.Request.Context(), user, id)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, msg, "Message marked as read")
}
