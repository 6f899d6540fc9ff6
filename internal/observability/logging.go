package observability

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

type contextKey string

const (
	userIDContextKey contextKey = "observability.user_id"
	requestIDKey     contextKey = "observability.request_id"
	routeKey         contextKey = "observability.route"
)

// WithRequestMetadata stores request id and normalized route in the context.
func WithRequestMetadata(ctx context.Context, requestID, route string) context.Context {
	requestID = strings.TrimSpace(requestID)
	route = strings.TrimSpace(route)
	if requestID != "" {
		ctx = context.WithValue(ctx, requestIDKey, requestID)
	}
	if route != "" {
		ctx = context.WithValue(ctx, routeKey, route)
	}
	return ctx
}

// WithRequestIdentity stores the authenticated user id in the context.
func WithRequestIdentity(ctx context.Context, userID int64) context.Context {
	if userID > 0 {
		ctx = context.WithValue(ctx, userIDContextKey, userID)
	}
	return ctx
}

// RequestIDFromContext extracts request id.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(requestIDKey).(string)
	return value, ok && value != ""
}

// RouteFromContext extracts normalized route path.
func RouteFromContext(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(routeKey).(string)
	return value, ok && value != ""
}

// UserIDFromContext extracts the authenticated user id.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	value, ok := ctx.Value(userIDContextKey).(int64)
	return value, ok && value > 0
}

type requestAwareHandler struct {
	next slog.Handler
}

// WrapSlogHandler adds request context fields to structured logs.
func WrapSlogHandler(next slog.Handler) slog.Handler {
	if next == nil {
		next = slog.NewTextHandler(io.Discard, nil)
	}
	return &requestAwareHandler{next: next}
}

func (h *requestAwareHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *requestAwareHandler) Handle(ctx context.Context, record slog.Record) error {
	if requestID, ok := RequestIDFromContext(ctx); ok {
		record.AddAttrs(slog.String("request_id", requestID))
	}
	if route, ok := RouteFromContext(ctx); ok {
		record.AddAttrs(slog.String("route", route))
	}
	if userID, ok := UserIDFromContext(ctx); ok {
		record.AddAttrs(slog.Int64("user_id", userID))
	}
	return h.next.Handle(ctx, record)
}

func (h *requestAwareHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &requestAwareHandler{next: h.next.WithAttrs(attrs)}
}

func (h *requestAwareHandler) WithGroup(name string) slog.Handler {
	return &requestAwareHandler{next: h.next.WithGroup(name)}
}
