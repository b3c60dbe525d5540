package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv() {
	os.Unsetenv("PORT")
	os.Unsetenv("FREEPIK_API_KEY")
	os.Unsetenv("FREEPIK_RELAY_BASE_URL")
	os.Unsetenv("POLL_INTERVAL")
	os.Unsetenv("POLL_MAX_ATTEMPTS")
	os.Unsetenv("GEMINI_API_KEY")
	os.Unsetenv("GEMINI_MODEL")
	os.Unsetenv("REDIS_ADDR")
	os.Unsetenv("ARCHIVE_DIR")
	os.Unsetenv("S3_BUCKET")
	os.Unsetenv("S3_REGION")
	os.Unsetenv("AWS_ACCESS_KEY_ID")
	os.Unsetenv("AWS_SECRET_ACCESS_KEY")
	os.Unsetenv("LOG_FORMAT")
	os.Unsetenv("LOG_LEVEL")
}

func TestLoad_RequiredVariables(t *testing.T) {
	t.Run("missing FREEPIK_API_KEY returns error", func(t *testing.T) {
		clearEnv()

		_, err := Load()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFreepikAPIKeyRequired)
	})

	t.Run("required variable present succeeds", func(t *testing.T) {
		clearEnv()
		t.Setenv("FREEPIK_API_KEY", "test-api-key")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "test-api-key", cfg.FreepikAPIKey)
	})
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv()
	t.Setenv("FREEPIK_API_KEY", "test-api-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 60, cfg.PollMaxAttempts)
	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
	assert.Equal(t, "/tmp/ugc-videos", cfg.ArchiveDir)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv()
	t.Setenv("FREEPIK_API_KEY", "custom-key")
	t.Setenv("FREEPIK_RELAY_BASE_URL", "https://relay.example.com/freepik")
	t.Setenv("PORT", "3000")
	t.Setenv("POLL_INTERVAL", "2s")
	t.Setenv("POLL_MAX_ATTEMPTS", "10")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("S3_BUCKET", "my-bucket")
	t.Setenv("S3_REGION", "us-east-1")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "https://relay.example.com/freepik", cfg.FreepikRelayBaseURL)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, 10, cfg.PollMaxAttempts)
	assert.Equal(t, "gemini-key", cfg.GeminiAPIKey)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "my-bucket", cfg.S3Bucket)
	assert.Equal(t, "us-east-1", cfg.S3Region)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidInteger(t *testing.T) {
	clearEnv()
	t.Setenv("FREEPIK_API_KEY", "test-api-key")
	t.Setenv("PORT", "not-a-number")

	_, err := Load()
	require.Error(t, err)
}

func TestConfig_FeatureToggles(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		s3          bool
		redis       bool
		scripts     bool
	}{
		{"all off", Config{}, false, false, false},
		{"s3 needs bucket and region", Config{S3Bucket: "b"}, false, false, false},
		{"s3 on", Config{S3Bucket: "b", S3Region: "r"}, true, false, false},
		{"redis on", Config{RedisAddr: "localhost:6379"}, false, true, false},
		{"scripts on", Config{GeminiAPIKey: "k"}, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.s3, tt.cfg.S3Enabled())
			assert.Equal(t, tt.redis, tt.cfg.RedisEnabled())
			assert.Equal(t, tt.scripts, tt.cfg.ScriptsEnabled())
		})
	}
}

func TestConfig_String(t *testing.T) {
	cfg := &Config{
		Port:          8080,
		FreepikAPIKey: "secret-key",
		GeminiAPIKey:  "gemini-secret",
		RedisAddr:     "localhost:6379",
		ArchiveDir:    "/tmp/test",
		LogFormat:     "json",
		LogLevel:      "info",
	}

	str := cfg.String()

	assert.Contains(t, str, "8080")
	assert.Contains(t, str, "localhost:6379")
	assert.Contains(t, str, "/tmp/test")

	// Should NOT contain sensitive values
	assert.NotContains(t, str, "secret-key")
	assert.NotContains(t, str, "gemini-secret")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.input))
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg := &Config{FreepikAPIKey: "key"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing API key", func(t *testing.T) {
		cfg := &Config{}
		assert.ErrorIs(t, cfg.Validate(), ErrFreepikAPIKeyRequired)
	})
}
