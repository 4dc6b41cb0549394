package utils

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
)

// LogConfig controls where logs go.
type LogConfig struct {
	File  string
	Level string
}

// SetupLogger sends logrus output to stdout and, when File is set, to a
// rotating log file.
func SetupLogger(cfg LogConfig) {
	var out io.Writer = os.Stdout
	if f := strings.TrimSpace(cfg.File); f != "" {
		rotator := &lumberjack.Logger{
			Filename:   f,
			MaxSize:    10, // megabytes
			MaxBackups: 7,
			MaxAge:     7, // days
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rotator)
	}

	logrus.SetOutput(out)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	level, err := logrus.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// LogEvent prints a standardized log line with module/action/request_id.
// Avoid logging sensitive payload; message should be summarized.
func LogEvent(requestID, module, action, message string) {
	logrus.WithFields(logrus.Fields{
		"module":     strings.ToLower(module),
		"action":     action,
		"request_id": strings.TrimSpace(requestID),
	}).Info(message)
}

type requestIDKey struct{}

// WithRequestID stores the request id so engine code can tag its logs.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}
