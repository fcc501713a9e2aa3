package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	cfg := Load()
	require.Equal(t, DefaultJWTSecret, cfg.JWTSecret)
	require.ErrorIs(t, cfg.Validate(), ErrInsecureJWTSecret)

	cfg.JWTSecret = "0f3c1d9e-rotated"
	require.NoError(t, cfg.Validate())
}

func TestValidateAllowsDefaultSecretInDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")

	require.NoError(t, Load().Validate())
}

func TestLoadOriginLists(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("FRONTEND_URL", "https://app.sharebox.org")
	require.Equal(t, []string{"https://app.sharebox.org"}, Load().AllowedOrigins)

	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization,X-Request-ID")
	cfg := Load()
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	require.Equal(t, []string{"Content-Type", "Authorization", "X-Request-ID"}, cfg.CORSAllowedHeaders)
}
