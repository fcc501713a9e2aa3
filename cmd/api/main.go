// ================== cmd/api/main.go ==================
//
// @title ShareBox API
// @version 1.0
// @description Donation matching: donors list items, receivers claim them, admins moderate
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer <token>"
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	docs "github.com/xyz-asif/sharebox/docs"
	"github.com/xyz-asif/sharebox/internal/config"
	"github.com/xyz-asif/sharebox/internal/database"
	"github.com/xyz-asif/sharebox/internal/middleware"
	"github.com/xyz-asif/sharebox/internal/pkg/logger"
	"github.com/xyz-asif/sharebox/internal/pkg/response"
	"github.com/xyz-asif/sharebox/internal/realtime"
	"github.com/xyz-asif/sharebox/internal/routes"
)

func main() {
	// Load config
	cfg := config.Load()

	logger.SetDefault(logger.NewForEnv(cfg.AppEnv, cfg.LogLevel))
	log := logger.L()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// Configure Swagger metadata at runtime
	docs.SwaggerInfo.Title = "ShareBox API"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:" + cfg.Port
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http"}

	// Connect to MongoDB
	db, err := database.Connect(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer db.Disconnect(context.Background())

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Change feed: local hub, optionally fed through Redis
	hub := realtime.NewHub()
	rt := routes.Realtime{Hub: hub, Publisher: hub}
	if cfg.RedisURL != "" {
		client, err := realtime.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		defer client.Close()

		broker := realtime.NewRedisBroker(client, cfg.RedisChannel, hub)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = broker.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}

		rt.Publisher = broker
		go func() {
			if err := broker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("redis relay stopped")
			}
		}()
		log.Info().Str("channel", cfg.RedisChannel).Msg("realtime events relayed through Redis")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerWithConfig(middleware.DefaultLoggerConfig(), log))
	corsCfg := middleware.DefaultCORSConfig(cfg.AllowedOrigins...)
	corsCfg.AllowedHeaders = cfg.CORSAllowedHeaders
	router.Use(middleware.CORS(corsCfg))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(pingCtx); err != nil {
			response.ServiceUnavailable(c, "Database unavailable", "DB_UNAVAILABLE")
			return
		}
		response.Success(c, map[string]interface{}{
			"status":      "ok",
			"time":        time.Now().Unix(),
			"subscribers": hub.Count(),
		})
	})

	// Swagger documentation (modern UI configs)
	router.GET(
		"/swagger/*any",
		ginSwagger.WrapHandler(
			swaggerFiles.Handler,
			ginSwagger.URL("/swagger/doc.json"),
			ginSwagger.DeepLinking(true),
			ginSwagger.DefaultModelsExpandDepth(-1),
			ginSwagger.DocExpansion("none"),
			ginSwagger.PersistAuthorization(true),
		),
	)

	// Register all routes
	routes.SetupRoutes(ctx, router, db.Database, cfg, rt)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("server starting")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	stop()
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
