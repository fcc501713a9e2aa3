package routes

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/xyz-asif/sharebox/internal/config"
	"github.com/xyz-asif/sharebox/internal/features/admin"
	"github.com/xyz-asif/sharebox/internal/features/auth"
	"github.com/xyz-asif/sharebox/internal/features/donations"
	"github.com/xyz-asif/sharebox/internal/features/media"
	"github.com/xyz-asif/sharebox/internal/features/messages"
	"github.com/xyz-asif/sharebox/internal/features/pickups"
	"github.com/xyz-asif/sharebox/internal/features/reports"
	"github.com/xyz-asif/sharebox/internal/pkg/cloudinary"
	"github.com/xyz-asif/sharebox/internal/pkg/jwt"
	"github.com/xyz-asif/sharebox/internal/pkg/logger"
	"github.com/xyz-asif/sharebox/internal/pkg/ratelimit"
	"github.com/xyz-asif/sharebox/internal/realtime"
)

// Realtime carries the change feed shared by every feature. Publisher is
// the hub itself or a Redis broker relaying into it.
type Realtime struct {
	Hub       *realtime.Hub
	Publisher realtime.Publisher
}

func SetupRoutes(ctx context.Context, router *gin.Engine, db *mongo.Database, cfg *config.Config, rt Realtime) {
	// API v1 group
	api := router.Group("/api/v1")

	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
	ipLimiter := ratelimit.New(cfg.RateLimitRequests, window)
	userLimiter := ratelimit.New(cfg.RateLimitRequests, window)
	ipLimiter.StartCleanup(ctx, time.Minute)
	userLimiter.StartCleanup(ctx, time.Minute)

	// Shared repositories
	authRepo := auth.NewRepository(db)
	donationsRepo := donations.NewRepository(db)
	pickupsRepo := pickups.NewRepository(db)

	tokens := jwt.DefaultConfig(cfg.JWTSecret).WithExpiryHours(cfg.JWTExpireHours)
	authService := auth.NewService(authRepo, tokens, cfg.AdminSignupCode)
	wireIdentityProviders(ctx, authService, cfg)

	authMiddleware := auth.NewAuthMiddleware(authService)

	// Public endpoints share the IP limiter
	public := api.Group("", ratelimit.Middleware(ipLimiter))
	auth.RegisterRoutes(public, authService, authMiddleware)
	realtime.RegisterRoutes(public, realtime.NewHandler(rt.Hub, authService, cfg.AllowedOrigins))

	// Everything below needs a signed-in user
	protected := api.Group("", authMiddleware, ratelimit.UserBasedMiddleware(userLimiter))

	cld := newCloudinary(cfg)

	donationService := donations.NewService(donationsRepo, pickupsRepo, authRepo, rt.Publisher)
	if cld != nil {
		donationService.WithImageRemover(cld)
	}
	donations.RegisterRoutes(protected, donationService)

	pickupService := pickups.NewService(pickupsRepo, donationService, rt.Publisher)
	pickups.RegisterRoutes(protected, pickupService)

	messageService := messages.NewService(messages.NewRepository(db), authRepo, donationService, rt.Publisher)
	messages.RegisterRoutes(protected, messageService)

	var uploader media.Uploader
	if cld != nil {
		uploader = cld
	}
	media.RegisterRoutes(protected, uploader)

	adminGroup := protected.Group("/admin", auth.RequireRole(auth.UserTypeAdmin))
	reportService := reports.NewService(reports.NewRepository(db), authRepo, rt.Publisher).
		WithSessionRevoker(rt.Hub)
	reports.RegisterRoutes(protected, adminGroup, reportService)
	admin.RegisterRoutes(adminGroup, admin.NewService(donationService, authRepo))
}

// wireIdentityProviders enables Firebase and Google sign-in when configured
func wireIdentityProviders(ctx context.Context, service *auth.Service, cfg *config.Config) {
	if cfg.FirebaseServiceAccountPath != "" {
		client, err := auth.InitFirebase(ctx, cfg.FirebaseServiceAccountPath)
		if err != nil {
			logger.L().Warn().Err(err).Msg("firebase sign-in disabled")
		} else {
			service.WithVerifier(auth.ProviderFirebase, auth.NewFirebaseVerifier(client))
		}
	}

	if cfg.GoogleClientID != "" {
		service.WithVerifier(auth.ProviderGoogle, auth.NewGoogleVerifier(cfg.GoogleClientID))
	}
}

// newCloudinary returns nil when Cloudinary is not configured. Uploads then
// answer 503 and deleted donations keep their images.
func newCloudinary(cfg *config.Config) *cloudinary.Service {
	cld, err := cloudinary.NewService(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryUploadFolder)
	if err != nil {
		if errors.Is(err, cloudinary.ErrNotConfigured) {
			logger.L().Warn().Msg("cloudinary not configured, image uploads disabled")
		} else {
			logger.L().Error().Err(err).Msg("failed to initialize cloudinary")
		}
		return nil
	}
	return cld
}
