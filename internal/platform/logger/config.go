package logger

import (
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
)

// LoggerConfig is read from LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT_FILE, APP_ENV
// and SERVICE_NAME.
type LoggerConfig struct {
	Level      string
	Format     string
	OutputFile string
	Service    string
	AppEnv     string
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// DefaultConfig reads the logger settings. Without LOG_FORMAT, development
// gets console output and every other environment gets JSON.
func DefaultConfig() *LoggerConfig {
	appEnv := strings.ToLower(envOr("APP_ENV", "development"))
	format := "json"
	if appEnv == "development" {
		format = "console"
	}
	return &LoggerConfig{
		Level:      strings.ToLower(envOr("LOG_LEVEL", "info")),
		Format:     strings.ToLower(envOr("LOG_FORMAT", format)),
		OutputFile: envOr("LOG_OUTPUT_FILE", "stdout"),
		Service:    envOr("SERVICE_NAME", "meraroom"),
		AppEnv:     appEnv,
	}
}

// ToZapLevel parses Level, accepting "warning" for warn. Unknown values mean info.
func (c *LoggerConfig) ToZapLevel() zapcore.Level {
	name := c.Level
	if name == "warning" {
		name = "warn"
	}
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
