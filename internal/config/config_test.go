package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "HS256", cfg.JWT.Algorithm)
	assert.Equal(t, int64(900), cfg.JWT.AccessExpiry)
	assert.Equal(t, int64(604800), cfg.JWT.RefreshExpiry)
	assert.Equal(t, int64(86400), cfg.JWT.ConfirmationExpiry)
	assert.Equal(t, uint32(64*1024), cfg.Argon2.Memory)
	assert.Equal(t, uint32(3), cfg.Argon2.Iterations)
	assert.Equal(t, uint8(2), cfg.Argon2.Parallelism)
	assert.Equal(t, "100-M", cfg.RateLimit.RatePerIP)
}

func TestLoadRejectsArgon2OutOfRange(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Setenv("ARGON2_PARALLELISM", "256")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("ARGON2_PARALLELISM", "2")
	t.Setenv("ARGON2_MEMORY", "-1")
	_, err = Load()
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_ALGORITHM", "HS512")
	t.Setenv("JWT_ACCESS_EXPIRY", "60")
	t.Setenv("CONFIRMATION_BASE_URL", "https://api.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "HS512", cfg.JWT.Algorithm)
	assert.Equal(t, int64(60), cfg.JWT.AccessExpiry)
	assert.Equal(t, "https://api.example.com", cfg.Confirmation.BaseURL)
}
