package logging

import (
	"context"
	"log/slog"
	"net"
	"net/http"
)

// SecurityEvent tags a WARN line about a rejected or suspicious request.
type SecurityEvent string

const (
	SecurityEventMissingAuth    SecurityEvent = "missing_auth"
	SecurityEventInvalidAuthFmt SecurityEvent = "invalid_auth_format"
	SecurityEventInvalidJWT     SecurityEvent = "invalid_jwt"
	SecurityEventNotOwner       SecurityEvent = "not_dancefloor_owner"
	SecurityEventRateLimited    SecurityEvent = "rate_limited"
	SecurityEventBadCredentials SecurityEvent = "bad_credentials"
)

// RequestAttrs are the fields attached to every line logged for a request.
// One value is shared by every context derived from the request, so fields
// learned deep in the chain (the DJ, the dancefloor) reach the access log
// written by the outermost middleware.
type RequestAttrs struct {
	Method       string
	Path         string
	IP           string
	DJID         string
	DancefloorID string
}

type attrsKey struct{}

func WithRequestAttrs(ctx context.Context, attrs *RequestAttrs) context.Context {
	return context.WithValue(ctx, attrsKey{}, attrs)
}

func requestAttrs(ctx context.Context) *RequestAttrs {
	attrs, _ := ctx.Value(attrsKey{}).(*RequestAttrs)
	return attrs
}

// set applies fn to the request's attrs in place, attaching a fresh value
// when ctx has none.
func set(ctx context.Context, fn func(*RequestAttrs)) context.Context {
	if attrs := requestAttrs(ctx); attrs != nil {
		fn(attrs)
		return ctx
	}
	attrs := &RequestAttrs{}
	fn(attrs)
	return WithRequestAttrs(ctx, attrs)
}

// WithDJ records the authenticated DJ on the request.
func WithDJ(ctx context.Context, djID string) context.Context {
	return set(ctx, func(a *RequestAttrs) { a.DJID = djID })
}

// WithDancefloor records the dancefloor the request operates on.
func WithDancefloor(ctx context.Context, dancefloorID string) context.Context {
	return set(ctx, func(a *RequestAttrs) { a.DancefloorID = dancefloorID })
}

// RequestFields returns the request's attrs as slog arguments, or nil.
func RequestFields(ctx context.Context) []any {
	attrs := requestAttrs(ctx)
	if attrs == nil {
		return nil
	}

	fields := []any{
		slog.String("method", attrs.Method),
		slog.String("path", attrs.Path),
		slog.String("ip", attrs.IP),
	}
	if attrs.DJID != "" {
		fields = append(fields, slog.String("dj_id", attrs.DJID))
	}
	if attrs.DancefloorID != "" {
		fields = append(fields, slog.String("dancefloor_id", attrs.DancefloorID))
	}
	return fields
}

// ExtractClientIP returns X-Real-IP, which the trusted-proxy middleware
// always overwrites, falling back to the peer address.
func ExtractClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func LogSecurityEvent(ctx context.Context, event SecurityEvent, msg string) {
	fields := append(RequestFields(ctx), slog.String("security_event", string(event)))
	slog.WarnContext(ctx, msg, fields...)
}

// LogErrorWithStatus logs msg at ERROR with the response status and cause.
func LogErrorWithStatus(ctx context.Context, status int, msg string, err error) {
	fields := append(RequestFields(ctx), slog.Int("status", status))
	if err != nil {
		fields = append(fields, slog.Any("error", err))
	}
	slog.ErrorContext(ctx, msg, fields...)
}
