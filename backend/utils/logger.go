package utils

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// LoggerConfig controls log output.
type LoggerConfig struct {
	// "json" or "console"
	Format string
	Level  zerolog.Level
	Output *os.File
}

// InitLogger builds the application logger.
func InitLogger(config ...LoggerConfig) zerolog.Logger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Level == zerolog.NoLevel {
		cfg.Level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "json" {
		logger = zerolog.New(cfg.Output)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        cfg.Output,
			TimeFormat: time.RFC3339,
		})
	}

	return logger.Level(cfg.Level).With().Timestamp().Str("service", "izilearn").Logger()
}
