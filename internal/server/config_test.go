package server_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Tyrowin/roomchat/internal/server"
)

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestNewConfigIsValid(t *testing.T) {
	cfg := server.NewConfig()

	require.NoError(t, cfg.Validate())
	require.Equal(t, "127.0.0.1:8080", cfg.TCPAddr)
	require.True(t, cfg.HTTPEnabled)
	require.Equal(t, 65535, cfg.MaxFrameSize)
	require.Equal(t, 5*time.Minute, cfg.IdleTimeout)
	require.False(t, cfg.PresenceNotices)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := server.LoadConfig(missingEnvFile(t))
	require.NoError(t, err)
	require.Equal(t, server.NewConfig(), cfg)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("CHAT_TCP_ADDR", "0.0.0.0:9000")
	t.Setenv("CHAT_HTTP_ENABLED", "false")
	t.Setenv("CHAT_IDLE_TIMEOUT", "30s")
	t.Setenv("CHAT_PRESENCE_NOTICES", "true")
	t.Setenv("CHAT_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := server.LoadConfig(missingEnvFile(t))
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0:9000", cfg.TCPAddr)
	require.False(t, cfg.HTTPEnabled)
	require.Equal(t, 30*time.Second, cfg.IdleTimeout)
	require.True(t, cfg.PresenceNotices)
	require.Equal(t, "DEBUG", cfg.LogLevel)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Origins())
}

func TestLoadConfigFromDotEnv(t *testing.T) {
	// godotenv sets variables on the process; register them with t.Setenv
	// first so they are removed again after the test.
	for _, key := range []string{"CHAT_TCP_ADDR", "CHAT_MAX_FRAME_SIZE"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	file := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(file, []byte("CHAT_TCP_ADDR=127.0.0.1:7000\nCHAT_MAX_FRAME_SIZE=1024\n"), 0o600))

	cfg, err := server.LoadConfig(file)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:7000", cfg.TCPAddr)
	require.Equal(t, 1024, cfg.MaxFrameSize)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "frame size above u16", key: "CHAT_MAX_FRAME_SIZE", value: "70000"},
		{name: "frame size too small", key: "CHAT_MAX_FRAME_SIZE", value: "1"},
		{name: "tcp address", key: "CHAT_TCP_ADDR", value: "nonsense"},
		{name: "log level", key: "LOG_LEVEL", value: "TRACE"},
		{name: "write timeout", key: "CHAT_WRITE_TIMEOUT", value: "0s"},
		{name: "unparsable duration", key: "CHAT_IDLE_TIMEOUT", value: "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := server.LoadConfig(missingEnvFile(t))
			require.ErrorIs(t, err, server.ErrInvalidConfig)
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := server.NewConfig()
	cfg.MaxFrameSize = 0

	_, err := server.New(cfg)
	require.ErrorIs(t, err, server.ErrInvalidConfig)
}
