package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppName  string
	Debug    bool
	LogLevel string

	BoardWidth   int
	BoardHeight  int
	Preview      int
	Seed         int64
	TickInterval time.Duration
	TuningScript string
	AutoReset    bool

	ServerHost string
	ServerPort int
	JWTSecret  string
	SessionTTL time.Duration
	InputRate  float64
	InputBurst int
}

// Load reads the optional .env file and then the NOTRIS_* environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, reading from environment")
	}

	cfg := &Config{
		AppName:  getEnv("NOTRIS_APP_NAME", "Notris"),
		Debug:    getEnvAsBool("NOTRIS_DEBUG", false),
		LogLevel: getEnv("NOTRIS_LOG_LEVEL", "info"),

		BoardWidth:   getEnvAsInt("NOTRIS_BOARD_WIDTH", 10),
		BoardHeight:  getEnvAsInt("NOTRIS_BOARD_HEIGHT", 20),
		Preview:      getEnvAsInt("NOTRIS_PREVIEW", 3),
		Seed:         getEnvAsInt64("NOTRIS_SEED", 0),
		TickInterval: time.Duration(getEnvAsInt("NOTRIS_TICK_MS", 50)) * time.Millisecond,
		TuningScript: getEnv("NOTRIS_TUNING", "games/tetris/tetris.lua"),
		AutoReset:    getEnvAsBool("NOTRIS_AUTO_RESET", true),

		ServerHost: getEnv("NOTRIS_SERVER_HOST", "localhost"),
		ServerPort: getEnvAsInt("NOTRIS_SERVER_PORT", 8080),
		JWTSecret:  os.Getenv("NOTRIS_JWT_SECRET"),
		SessionTTL: time.Duration(getEnvAsInt("NOTRIS_SESSION_TTL_MIN", 60)) * time.Minute,
		InputRate:  getEnvAsFloat("NOTRIS_INPUT_RATE", 30),
		InputBurst: getEnvAsInt("NOTRIS_INPUT_BURST", 10),
	}

	if cfg.JWTSecret == "" {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate a JWT key: %w", err)
		}
		cfg.JWTSecret = base64.StdEncoding.EncodeToString(key)
		log.Warn().Msg("NOTRIS_JWT_SECRET is not set, using an ephemeral key; session tokens will not survive a restart")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the game or the server cannot run with.
func (c *Config) Validate() error {
	if c.BoardWidth < 4 || c.BoardHeight < 4 {
		return fmt.Errorf("board %dx%d is too small, need at least 4x4", c.BoardWidth, c.BoardHeight)
	}
	if c.Preview < 1 || c.Preview > 7 {
		return fmt.Errorf("preview %d out of range [1,7]", c.Preview)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval %v must be positive", c.TickInterval)
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("server port %d out of range", c.ServerPort)
	}
	if c.InputRate <= 0 || c.InputBurst < 1 {
		return fmt.Errorf("input rate %v/s burst %d must be positive", c.InputRate, c.InputBurst)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return nil
}

// ListenAddr is the host:port the server binds.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.ServerHost, strconv.Itoa(c.ServerPort))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
