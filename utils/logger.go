package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

// InitLogger initializes the application logger. Logs go to stdout as JSON;
// set LOG_PRETTY=true for human-readable console output during development.
func InitLogger() error {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if lvl, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && lvl != zerolog.NoLevel {
		level = lvl
	}

	if os.Getenv("LOG_PRETTY") == "true" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			Level(level).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	}

	return nil
}

// LogInfo logs an informational message
func LogInfo(format string, v ...interface{}) {
	logger.Info().Msgf(format, v...)
}

// LogError logs an error message
func LogError(format string, v ...interface{}) {
	logger.Error().Msgf(format, v...)
}

// LogDebug logs a debug message
func LogDebug(format string, v ...interface{}) {
	logger.Debug().Msgf(format, v...)
}

// LogRequest logs HTTP request details
func LogRequest(method, path, ip string, status int, duration time.Duration) {
	logger.Info().
		Str("method", method).
		Str("path", path).
		Str("ip", ip).
		Int("status", status).
		Dur("duration", duration).
		Msg("request")
}

// LogErrorWithStack logs an error with stack trace
func LogErrorWithStack(err error, stack []byte) {
	logger.Error().Err(err).Str("stack", string(stack)).Msg("panic recovered")
}

// LogFatal logs and exits; used only during startup.
func LogFatal(format string, v ...interface{}) {
	logger.Fatal().Msg(fmt.Sprintf(format, v...))
}
