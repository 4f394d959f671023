package middleware

import (
	"context"
	"net/http"

	"github.com/Demilade/Kudi/internal/logger"
	"github.com/Demilade/Kudi/internal/server"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

const (
	// UserIDHeader is set by the upstream auth gateway after token
	// verification. Authentication itself lives outside this service.
	UserIDHeader = "X-User-ID"

	LoggerKey = "logger"
	UserIDKey = "user_id"
)

const (
	loggerContextKey contextKey = LoggerKey
	userIDContextKey contextKey = UserIDKey
)

type ContextEnhancer struct {
	Server *server.Server
}

func NewContextEnhancer(srv *server.Server) *ContextEnhancer {
	return &ContextEnhancer{
		Server: srv,
	}
}

func (ce *ContextEnhancer) EnhanceContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := GetRequestID(r)

		contextLogger := ce.Server.Logger.With().
			Str("request_id", requestID).
			Str("ip", r.RemoteAddr).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()

		if txn := newrelic.FromContext(r.Context()); txn != nil {
			contextLogger = logger.WithTraceContext(contextLogger, txn)
		}

		ctx := r.Context()

		if userID := r.Header.Get(UserIDHeader); userID != "" {
			contextLogger = contextLogger.With().Str("user_id", userID).Logger()
			ctx = context.WithValue(ctx, userIDContextKey, userID)
		}

		ctx = context.WithValue(ctx, loggerContextKey, &contextLogger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetLogger retrieves the request-scoped logger from the context.
func GetLogger(ctx context.Context) *zerolog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*zerolog.Logger); ok {
		return logger
	}
	logger := zerolog.Nop()
	return &logger
}

// GetUserID returns the authenticated user id, or "" when the request is
// anonymous.
func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(userIDContextKey).(string); ok {
		return userID
	}
	return ""
}
