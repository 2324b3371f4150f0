// Package server provides configuration helpers that define runtime defaults,
// validation, and transport parameters for the chat relay.
package server

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/Tyrowin/roomchat/internal/codec"
)

var validate = validator.New()

// Config holds the server configuration settings.
type Config struct {
	TCPAddr         string        `env:"CHAT_TCP_ADDR,default=127.0.0.1:8080" validate:"required,hostname_port"`
	HTTPEnabled     bool          `env:"CHAT_HTTP_ENABLED,default=true"`
	HTTPAddr        string        `env:"CHAT_HTTP_ADDR,default=127.0.0.1:8081" validate:"required,hostname_port"`
	AllowedOrigins  string        `env:"CHAT_ALLOWED_ORIGINS,default=http://localhost:8081"`
	MaxFrameSize    int           `env:"CHAT_MAX_FRAME_SIZE,default=65535" validate:"gte=2,lte=65535"`
	IdleTimeout     time.Duration `env:"CHAT_IDLE_TIMEOUT,default=5m" validate:"gte=0"`
	WriteTimeout    time.Duration `env:"CHAT_WRITE_TIMEOUT,default=10s" validate:"gt=0"`
	ShutdownTimeout time.Duration `env:"CHAT_SHUTDOWN_TIMEOUT,default=5s" validate:"gt=0"`
	PresenceNotices bool          `env:"CHAT_PRESENCE_NOTICES,default=false"`
	LogLevel        string        `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR"`
}

// NewConfig creates a Config instance populated with default values for all settings.
func NewConfig() Config {
	return Config{
		TCPAddr:         "127.0.0.1:8080",
		HTTPEnabled:     true,
		HTTPAddr:        "127.0.0.1:8081",
		AllowedOrigins:  "http://localhost:8081",
		MaxFrameSize:    codec.MaxFrameSize,
		IdleTimeout:     defaultIdleTimeout,
		WriteTimeout:    defaultWriteTimeout,
		ShutdownTimeout: 5 * time.Second,
		LogLevel:        "INFO",
	}
}

// LoadConfig reads the given dotenv files (".env" when none are given, and a
// missing file is not an error), then the process environment, and validates
// the result. Variables already set in the environment win over the files.
func LoadConfig(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg.LogLevel = strings.ToUpper(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Origins returns the configured WebSocket origins as a list.
func (c Config) Origins() []string {
	return parseOrigins(c.AllowedOrigins)
}

func parseOrigins(origins string) []string {
	if strings.TrimSpace(origins) == "" {
		return nil
	}
	parts := strings.Split(origins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
