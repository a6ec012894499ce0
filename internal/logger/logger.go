// internal/logger/logger.go
package logger

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

type ContextKey string

const (
	RequestIDKey ContextKey = "requestID"
	CompanyKey   ContextKey = "company"
)

var (
	appLogger *logrus.Logger
	mu        sync.RWMutex
)

// Init builds the application logger. level is a logrus level name, format
// is "json" or "text"; unknown values fall back to info/text.
func Init(level, format string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	mu.Lock()
	appLogger = l
	mu.Unlock()
	return l
}

// GetAppLogger returns the logger set by Init, or a default one.
func GetAppLogger() *logrus.Logger {
	mu.RLock()
	l := appLogger
	mu.RUnlock()
	if l != nil {
		return l
	}
	return Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func WithCompany(ctx context.Context, company string) context.Context {
	return context.WithValue(ctx, CompanyKey, company)
}

// WithContext returns an entry carrying the fields stored on ctx.
func WithContext(ctx context.Context) *logrus.Entry {
	entry := GetAppLogger().WithContext(ctx)
	if id := ctx.Value(RequestIDKey); id != nil {
		entry = entry.WithField("request_id", id)
	}
	if company := ctx.Value(CompanyKey); company != nil {
		entry = entry.WithField("company", company)
	}
	return entry
}
