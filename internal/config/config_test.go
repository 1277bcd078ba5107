package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/api/v1", cfg.BasePath)
	assert.Equal(t, time.Second, cfg.Poll.Interval)
	assert.Equal(t, 1.0, cfg.Poll.Multiplier)
	assert.Equal(t, 5, cfg.Poll.MaxToolRounds)
	assert.True(t, cfg.Poll.CancelRunOnAbort)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("JWT_SECRET_KEY", "segredo")
	t.Setenv("POLL_MAX_WAIT", "30s")
	t.Setenv("CORS_ORIGINS", "http://a.com, http://b.com")
	t.Setenv("STORAGE_PUBLIC_URL", "https://cdn.exemplo.com/files/")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 30*time.Second, cfg.Poll.MaxWait)
	assert.Equal(t, []string{"http://a.com", "http://b.com"}, cfg.CORS)
	assert.Equal(t, "https://cdn.exemplo.com/files", cfg.Storage.PublicURL)
}

func TestValidate_MissingKeys(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.OpenAI.APIKey = ""
	assert.ErrorIs(t, cfg.Validate(), ErrMissingOpenAIKey)

	cfg.OpenAI.APIKey = "sk"
	cfg.JWT.SecretKey = ""
	assert.ErrorIs(t, cfg.Validate(), ErrMissingJWTKey)
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "sumy", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/sumy?sslmode=disable", c.ConnectionString())

	c.URL = "postgres://outro"
	assert.Equal(t, "postgres://outro", c.ConnectionString())
}

func TestValidate_RequiresPollBound(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("JWT_SECRET_KEY", "segredo")
	t.Setenv("POLL_MAX_WAIT", "0s")
	t.Setenv("POLL_MAX_ATTEMPTS", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.ErrorIs(t, cfg.Validate(), ErrUnboundedPoll)

	cfg.Poll.MaxAttempts = 10
	assert.NoError(t, cfg.Validate())

	cfg.Poll.MaxAttempts = 0
	cfg.Poll.MaxWait = time.Minute
	assert.NoError(t, cfg.Validate())
}
