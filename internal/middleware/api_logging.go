package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"rental-backend/internal/logger"
)

const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// requestInfo is filled in by inner middleware (auth) and read back when the
// request is logged
type requestInfo struct {
	id     string
	userID int
}

// RequestLogger writes one structured log line per request
type RequestLogger struct {
	log zerolog.Logger
}

func NewRequestLogger() *RequestLogger {
	return &RequestLogger{log: logger.Component("http")}
}

// Handler returns the middleware handler
func (m *RequestLogger) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		info := &requestInfo{id: id}
		w.Header().Set(RequestIDHeader, id)

		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, info)))

		// Skip logging for health checks and scrapes
		if shouldSkipLogging(r.URL.Path) && wrapped.statusCode < 400 {
			return
		}

		var ev *zerolog.Event
		switch {
		case wrapped.statusCode >= 500:
			ev = m.log.Error()
		case wrapped.statusCode >= 400:
			ev = m.log.Warn()
		default:
			ev = m.log.Info()
		}
		if info.userID != 0 {
			ev = ev.Int("user_id", info.userID)
		}
		ev.Str("request_id", id).
			Str("method", r.Method).
			Str("path", sanitizePath(r.URL.Path)).
			Int("status", wrapped.statusCode).
			Int("bytes", wrapped.bytesWritten).
			Dur("duration", time.Since(start)).
			Str("ip", getClientIP(r)).
			Str("user_agent", r.UserAgent()).
			Msg("request")
	})
}

// GetRequestID returns the id assigned by RequestLogger, or ""
func GetRequestID(ctx context.Context) string {
	if info, ok := ctx.Value(requestIDKey{}).(*requestInfo); ok {
		return info.id
	}
	return ""
}

func noteUser(ctx context.Context, userID int) {
	if info, ok := ctx.Value(requestIDKey{}).(*requestInfo); ok {
		info.userID = userID
	}
}

// shouldSkipLogging returns true for paths that shouldn't be logged
func shouldSkipLogging(path string) bool {
	skipPaths := []string{
		"/health",
		"/metrics",
		"/favicon.ico",
	}

	for _, skip := range skipPaths {
		if strings.HasPrefix(path, skip) {
			return true
		}
	}

	return false
}

// sanitizePath truncates very long paths
func sanitizePath(path string) string {
	if len(path) > 500 {
		path = path[:500]
	}
	return path
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header (for proxies/load balancers)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
