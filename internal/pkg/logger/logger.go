package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger zerolog.Logger

// LogLevel represents the log level
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
	// FatalLevel logs then exits the process
	FatalLevel LogLevel = "fatal"
)

// Config represents logger configuration
type Config struct {
	Level LogLevel
	// Pretty enables human-readable console output instead of JSON
	Pretty bool
	// Output defaults to os.Stdout
	Output io.Writer
	// Service is attached to every entry when set
	Service string
}

// ParseLevel maps a LogLevel onto zerolog, defaulting to info
func ParseLevel(level LogLevel) zerolog.Level {
	switch level {
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	case FatalLevel:
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Configure configures the global logger with the provided config
func Configure(config Config) {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(ParseLevel(config.Level))

	var writer io.Writer = config.Output
	if config.Pretty {
		writer = zerolog.ConsoleWriter{
			Out:        config.Output,
			TimeFormat: time.RFC3339,
		}
	}

	ctx := zerolog.New(writer).With().Timestamp()
	if config.Service != "" {
		ctx = ctx.Str("service", config.Service)
	}
	defaultLogger = ctx.Logger()
	log.Logger = defaultLogger
}

// Get returns the configured logger
func Get() zerolog.Logger {
	return defaultLogger
}

func Debug() *zerolog.Event {
	return defaultLogger.Debug()
}

func Info() *zerolog.Event {
	return defaultLogger.Info()
}

func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

func Error() *zerolog.Event {
	return defaultLogger.Error()
}

// Fatal logs a fatal message and then exits
func Fatal() *zerolog.Event {
	return defaultLogger.Fatal()
}

// WithField returns a child logger carrying one extra field
func WithField(key string, value interface{}) zerolog.Logger {
	return defaultLogger.With().Interface(key, value).Logger()
}

func init() {
	Configure(Config{
		Level:  InfoLevel,
		Pretty: true,
		Output: os.Stdout,
	})
}
