package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	AppEnv         string
	LogLevel       string
	MongoURI       string
	MongoDB        string
	JWTSecret      string
	JWTExpireHours int

	// Browser origins allowed by CORS and the websocket upgrade.
	AllowedOrigins     []string
	CORSAllowedHeaders []string

	// Signing up as an admin requires this code.
	AdminSignupCode string

	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string

	FirebaseServiceAccountPath string
	GoogleClientID             string

	RedisURL     string
	RedisChannel string

	RateLimitRequests      int
	RateLimitWindowSeconds int
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		AppEnv:         getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGO_DB", "sharebox"),
		JWTSecret:      getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTExpireHours: getEnvInt("JWT_EXPIRE_HOURS", 24),

		AllowedOrigins:     getEnvList("CORS_ALLOWED_ORIGINS", getEnv("FRONTEND_URL", "http://localhost:3000")),
		CORSAllowedHeaders: getEnvList("CORS_ALLOWED_HEADERS", "Content-Type, Authorization"),

		AdminSignupCode: getEnv("ADMIN_SIGNUP_CODE", ""),

		CloudinaryCloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:       getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret:    getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryUploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "sharebox"),

		FirebaseServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		GoogleClientID:             getEnv("GOOGLE_CLIENT_ID", ""),

		RedisURL:     getEnv("REDIS_URL", ""),
		RedisChannel: getEnv("REDIS_CHANNEL", "sharebox:changes"),

		RateLimitRequests:      getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
	}
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// DefaultJWTSecret is what Load falls back to when JWT_SECRET is unset
const DefaultJWTSecret = "secret"

var ErrInsecureJWTSecret = errors.New("JWT_SECRET must be set to a non-default value in production")

// Validate rejects settings that are only acceptable in development
func (c *Config) Validate() error {
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		return ErrInsecureJWTSecret
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

// getEnvList splits a comma separated value, dropping blanks
func getEnvList(key, defaultValue string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, defaultValue), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
