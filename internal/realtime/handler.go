package realtime

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/xyz-asif/sharebox/internal/features/auth"
	"github.com/xyz-asif/sharebox/internal/middleware"
	"github.com/xyz-asif/sharebox/internal/pkg/logger"
	"github.com/xyz-asif/sharebox/internal/pkg/response"
	apperrors "github.com/xyz-asif/sharebox/pkg/errors"
)

// Handler upgrades authenticated requests to a change-feed websocket
type Handler struct {
	hub      *Hub
	authn    auth.Authenticator
	upgrader websocket.Upgrader
}

// NewHandler accepts websocket origins listed in allowedOrigins; "*" allows any
func NewHandler(hub *Hub, authn auth.Authenticator, allowedOrigins []string) *Handler {
	return &Handler{
		hub:   hub,
		authn: authn,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || middleware.OriginAllowed(allowedOrigins, origin)
			},
		},
	}
}

// Connect godoc
// @Summary Subscribe to change events
// @Description Websocket upgrade. Browsers pass the access token as the token query parameter.
// @Tags realtime
// @Param token query string false "Access token (or Authorization header)"
// @Param tables query string false "Comma separated tables: donations,pickup_requests,user_reports,messages"
// @Success 101
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /realtime [get]
func (h *Handler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token, _ = auth.BearerToken(c.GetHeader("Authorization"))
	}
	if token == "" {
		response.Unauthorized(c, "Access token required", "AUTH_REQUIRED")
		return
	}

	user, err := h.authn.Authenticate(c.Request.Context(), token)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrBanned) {
			response.Forbidden(c, "Your account has been banned", "ACCOUNT_BANNED")
			return
		}
		response.Unauthorized(c, "Invalid or expired token", "INVALID_TOKEN")
		return
	}

	tables, err := ParseTables(c.Query("tables"))
	if err != nil {
		response.BadRequest(c, err.Error(), "INVALID_TABLES")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.L().Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	cl := &client{
		hub:    h.hub,
		conn:   conn,
		userID: user.ID.Hex(),
		sub: h.hub.Subscribe(SubscribeOptions{
			Tables: tables,
			UserID: user.ID.Hex(),
			Admin:  user.IsAdmin(),
		}),
	}

	go cl.writePump()
	go cl.readPump()
}

// ParseTables splits and checks the tables query parameter
func ParseTables(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var tables []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !isKnownTable(t) {
			return nil, apperrors.Wrapf(apperrors.ErrValidation, "unknown table %q", t)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func isKnownTable(t string) bool {
	for _, k := range KnownTables {
		if k == t {
			return true
		}
	}
	return false
}

// RegisterRoutes mounts the websocket endpoint
func RegisterRoutes(router *gin.RouterGroup, h *Handler) {
	router.GET("/realtime", h.Connect)
}
