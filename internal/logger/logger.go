package logger

import (
	"context"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

type requestIDKey struct{}

func init() {
	Logger = logrus.New()
	Logger.SetOutput(os.Stdout)

	// Level from environment until configuration is loaded
	SetLevel(os.Getenv("LOG_LEVEL"))

	Logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
}

// SetLevel changes the log level; unknown names fall back to info
func SetLevel(level string) {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Logger.SetLevel(lvl)
}

// ContextWithRequestID returns a copy of ctx carrying the request id
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request id stored in ctx, or ""
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// FromContext returns an entry tagged with the request id in ctx, if any
func FromContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(Logger)
	if id := RequestIDFromContext(ctx); id != "" {
		entry = entry.WithField("request_id", id)
	}
	return entry
}

// WithFields creates a new entry with the given fields
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Logger.WithFields(fields)
}

// WithField creates a new entry with a single field
func WithField(key string, value interface{}) *logrus.Entry {
	return Logger.WithField(key, value)
}

// WithError creates a new entry with an error field
func WithError(err error) *logrus.Entry {
	return Logger.WithError(err)
}
