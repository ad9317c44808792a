package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http/httptest"
	"testing"
)

func TestDecodeLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"WARN", slog.LevelWarn},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := decodeLogLevel(tt.in); got != tt.want {
			t.Errorf("decodeLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWrapErrorCarriesTrace(t *testing.T) {
	if WrapError(nil, "noop") != nil {
		t.Fatal("WrapError(nil) should be nil")
	}

	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)
	logger.Error("boom", slog.Any("error", WrapError(errors.New("disk full"), "insert song request")))

	var entry struct {
		Error struct {
			Msg   string `json:"msg"`
			Trace []any  `json:"trace"`
		} `json:"error"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry.Error.Msg != "insert song request: disk full" {
		t.Errorf("msg = %q", entry.Error.Msg)
	}
	if len(entry.Error.Trace) == 0 {
		t.Error("expected a stack trace on wrapped error")
	}
}

func TestRequestFields(t *testing.T) {
	if RequestFields(context.Background()) != nil {
		t.Error("expected no fields without attrs")
	}

	ctx := WithRequestAttrs(context.Background(), &RequestAttrs{Method: "PUT", Path: "/api/x", IP: "1.2.3.4"})
	ctx = WithDJ(ctx, "dj-1")
	ctx = WithDancefloor(ctx, "df-1")

	fields := RequestFields(ctx)
	if len(fields) != 5 {
		t.Fatalf("len(fields) = %d, want 5", len(fields))
	}
	attrs := requestAttrs(ctx)
	if attrs.DJID != "dj-1" || attrs.DancefloorID != "df-1" || attrs.Method != "PUT" {
		t.Errorf("unexpected attrs %+v", attrs)
	}
}

func TestAttrsSharedWithParentContext(t *testing.T) {
	attrs := &RequestAttrs{Method: "GET", Path: "/api/auth/me"}
	outer := WithRequestAttrs(context.Background(), attrs)

	inner, cancel := context.WithCancel(outer)
	defer cancel()
	WithDJ(inner, "dj-7")
	WithDancefloor(inner, "df-7")

	got := requestAttrs(outer)
	if got.DJID != "dj-7" || got.DancefloorID != "df-7" {
		t.Errorf("outer context attrs = %+v, want dj and dancefloor set", got)
	}
}

func TestWithDJWithoutAttrs(t *testing.T) {
	ctx := WithDJ(context.Background(), "dj-1")
	if attrs := requestAttrs(ctx); attrs == nil || attrs.DJID != "dj-1" {
		t.Errorf("attrs = %+v, want a fresh value carrying the dj", attrs)
	}
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"real ip header", map[string]string{"X-Real-IP": "9.9.9.9"}, "1.1.1.1:1234", "9.9.9.9"},
		{"forwarded header ignored", map[string]string{"X-Forwarded-For": "8.8.8.8, 10.0.0.1"}, "1.1.1.1:1234", "1.1.1.1"},
		{"remote ipv4", nil, "1.1.1.1:1234", "1.1.1.1"},
		{"remote ipv6", nil, "[::1]:1234", "::1"},
		{"bare remote", nil, "pipe", "pipe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ExtractClientIP(r); got != tt.want {
				t.Errorf("ExtractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
