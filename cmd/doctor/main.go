// Command doctor checks that every backing service in .env is reachable
// before the API is started.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/xyz-asif/sharebox/internal/config"
	"github.com/xyz-asif/sharebox/internal/database"
	"github.com/xyz-asif/sharebox/internal/features/auth"
	"github.com/xyz-asif/sharebox/internal/pkg/cloudinary"
	"github.com/xyz-asif/sharebox/internal/realtime"
)

type check struct {
	name     string
	required bool
	run      func(ctx context.Context, cfg *config.Config) (string, error)
}

var checks = []check{
	{name: "MongoDB", required: true, run: checkMongo},
	{name: "Redis", run: checkRedis},
	{name: "Firebase Auth", run: checkFirebase},
	{name: "Cloudinary", run: checkCloudinary},
}

// errSkipped marks an optional service that is not configured
var errSkipped = errors.New("not configured")

func main() {
	cfg := config.Load()
	failed := false

	for _, c := range checks {
		fmt.Printf("Testing %s connection...\n", c.name)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		detail, err := c.run(ctx, cfg)
		cancel()

		switch {
		case errors.Is(err, errSkipped) && !c.required:
			fmt.Printf("  - %s skipped (not configured)\n\n", c.name)
		case err != nil:
			fmt.Printf("  ✗ %s failed: %v\n\n", c.name, err)
			failed = true
		default:
			fmt.Printf("  ✓ %s connected %s\n\n", c.name, detail)
		}
	}

	if failed {
		os.Exit(1)
	}
	fmt.Println("All configured services are reachable.")
}

func checkMongo(ctx context.Context, cfg *config.Config) (string, error) {
	db, err := database.Connect(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return "", err
	}
	defer db.Disconnect(ctx)

	if err := db.Ping(ctx); err != nil {
		return "", err
	}
	return fmt.Sprintf("(database %s)", cfg.MongoDB), nil
}

func checkRedis(ctx context.Context, cfg *config.Config) (string, error) {
	if cfg.RedisURL == "" {
		return "", errSkipped
	}
	client, err := realtime.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return "", err
	}
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("(channel %s)", cfg.RedisChannel), nil
}

func checkFirebase(ctx context.Context, cfg *config.Config) (string, error) {
	if cfg.FirebaseServiceAccountPath == "" {
		return "", errSkipped
	}
	if _, err := auth.InitFirebase(ctx, cfg.FirebaseServiceAccountPath); err != nil {
		return "", err
	}
	return "", nil
}

func checkCloudinary(_ context.Context, cfg *config.Config) (string, error) {
	cld, err := cloudinary.NewService(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryUploadFolder)
	if errors.Is(err, cloudinary.ErrNotConfigured) {
		return "", errSkipped
	}
	if err != nil {
		return "", err
	}
	if cld.CloudName() != cfg.CloudinaryCloudName {
		return "", fmt.Errorf("config mismatch: got cloud %q", cld.CloudName())
	}
	return fmt.Sprintf("(cloud %s, folder %s)", cld.CloudName(), cfg.CloudinaryUploadFolder), nil
}
