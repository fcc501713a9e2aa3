// ================== internal/features/auth/handler.go ==================
package auth

// Swagger API metadata is defined globally in cmd/api/main.go

import (
	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/sharebox/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register godoc
// @Summary Register a new user
// @Description Register a donor, receiver or admin with email and password. Admins need the signup code.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "User registration data"
// @Success 201 {object} response.APIResponse{data=AuthResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_JSON")
		return
	}

	result, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Created(c, result, "Account created")
}

// Login godoc
// @Summary Login user
// @Description Authenticate user with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "User login credentials"
// @Success 200 {object} response.APIResponse{data=AuthResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_JSON")
		return
	}

	result, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, result, "Login successful")
}

// FirebaseLogin godoc
// @Summary Sign in with Firebase
// @Description Verify a Firebase ID token and sign in, creating the account on first use
// @Tags auth
// @Accept json
// @Produce json
// @Param request body FederatedAuthRequest true "Firebase ID token"
// @Success 200 {object} response.APIResponse{data=AuthResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/firebase [post]
func (h *Handler) FirebaseLogin(c *gin.Context) {
	h.federated(c, ProviderFirebase)
}

// GoogleLogin godoc
// @Summary Sign in with Google
// @Description Verify a Google ID token and sign in, creating the account on first use
// @Tags auth
// @Accept json
// @Produce json
// @Param request body FederatedAuthRequest true "Google ID token"
// @Success 200 {object} response.APIResponse{data=AuthResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/google [post]
func (h *Handler) GoogleLogin(c *gin.Context) {
	h.federated(c, ProviderGoogle)
}

func (h *Handler) federated(c *gin.Context, provider string) {
	var req FederatedAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_JSON")
		return
	}

	result, err := h.service.FederatedLogin(c.Request.Context(), provider, &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, result, "Login successful")
}

// GetMe godoc
// @Summary Get current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse{data=User}
// @Failure 401 {object} response.APIResponse
// @Router /auth/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}
	response.Success(c, user)
}

// UpdateProfile godoc
// @Summary Update profile
// @Description Update first name, last name, phone or avatar
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} response.APIResponse{data=User}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/profile [patch]
func (h *Handler) UpdateProfile(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format", "INVALID_JSON")
		return
	}

	updated, err := h.service.UpdateProfile(c.Request.Context(), user, &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, updated, "Profile updated")
}
