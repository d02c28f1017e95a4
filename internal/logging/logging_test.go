package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// captureLogOutput redirects the global logger to a buffer while f runs.
func captureLogOutput(f func()) string {
	var buf bytes.Buffer

	old := GetLogger()
	SetLogger(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(old)

	f()
	return buf.String()
}

// decodeLine parses the first JSON log record in out.
func decodeLine(t *testing.T, out string) map[string]any {
	t.Helper()
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	var rec map[string]any
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatalf("log output is not JSON: %v\n%s", err, out)
	}
	return rec
}

func TestInitLoggerWithWriter(t *testing.T) {
	tests := []struct {
		name      string
		level     Level
		format    Format
		wantDebug bool
		wantJSON  bool
	}{
		{"debug json", LevelDebug, FormatJSON, true, true},
		{"info json", LevelInfo, FormatJSON, false, true},
		{"warn text", LevelWarn, FormatText, false, false},
		{"unknown level falls back to info", Level(999), FormatJSON, false, true},
	}

	old := GetLogger()
	defer SetLogger(old)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			InitLoggerWithWriter(&buf, tt.level, tt.format)

			Debug("debug message")
			Error("error message")

			out := buf.String()
			if got := strings.Contains(out, "debug message"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v\n%s", got, tt.wantDebug, out)
			}
			if !strings.Contains(out, "error message") {
				t.Errorf("error message missing:\n%s", out)
			}
			if got := strings.HasPrefix(out, "{"); got != tt.wantJSON {
				t.Errorf("json output = %v, want %v\n%s", got, tt.wantJSON, out)
			}
		})
	}
}

func TestTimestampIsRFC3339(t *testing.T) {
	old := GetLogger()
	defer SetLogger(old)

	var buf bytes.Buffer
	InitLoggerWithWriter(&buf, LevelInfo, FormatJSON)
	Info("hello")

	rec := decodeLine(t, buf.String())
	ts, _ := rec["time"].(string)
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("time %q is not RFC3339: %v", ts, err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("text"); err != nil || f != FormatText {
		t.Errorf("ParseFormat(text) = %v, %v", f, err)
	}
	if f, err := ParseFormat(""); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(\"\") = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	if got := GetRequestID(ctx); got != "" {
		t.Errorf("GetRequestID(empty) = %q", got)
	}
	ctx = WithRequestID(ctx, "req-1")
	if got := GetRequestID(ctx); got != "req-1" {
		t.Errorf("GetRequestID = %q, want req-1", got)
	}

	out := captureLogOutput(func() {
		InfoContext(ctx, "with id")
	})
	if rec := decodeLine(t, out); rec["request_id"] != "req-1" {
		t.Errorf("request_id = %v, want req-1", rec["request_id"])
	}
}

func TestDomainHelpers(t *testing.T) {
	tests := []struct {
		name   string
		log    func()
		msg    string
		fields map[string]any
	}{
		{
			name: "BibleLoaded",
			log:  func() { BibleLoaded("NKJV", "/b/NKJV.xml", 31102, "skipped", 0) },
			msg:  "bible_loaded",
			fields: map[string]any{
				"version": "NKJV", "path": "/b/NKJV.xml", "verses": float64(31102), "skipped": float64(0),
			},
		},
		{
			name:   "BibleLoadFailed",
			log:    func() { BibleLoadFailed("/b/bad.xml", errors.New("boom")) },
			msg:    "bible_load_failed",
			fields: map[string]any{"path": "/b/bad.xml", "error": "boom", "level": "WARN"},
		},
		{
			name:   "BiblesLoaded",
			log:    func() { BiblesLoaded(2, 3, 1500*time.Millisecond) },
			msg:    "bibles_loaded",
			fields: map[string]any{"versions": float64(2), "files": float64(3), "duration_ms": float64(1500)},
		},
		{
			name:   "SearchExecuted",
			log:    func() { SearchExecuted("John 3:16", "NKJV", "reference", 1, time.Millisecond) },
			msg:    "search_executed",
			fields: map[string]any{"query": "John 3:16", "phase": "reference", "results": float64(1), "level": "DEBUG"},
		},
		{
			name:   "WebSocketEvent",
			log:    func() { WebSocketEvent("client_connected", 4) },
			msg:    "websocket_event",
			fields: map[string]any{"event": "client_connected", "client_count": float64(4)},
		},
		{
			name:   "WatchEvent",
			log:    func() { WatchEvent("WRITE", "/b/NKJV.xml") },
			msg:    "watch_event",
			fields: map[string]any{"op": "WRITE", "path": "/b/NKJV.xml"},
		},
		{
			name:   "ServerStartup",
			log:    func() { ServerStartup("api", "http", 8080) },
			msg:    "server_startup",
			fields: map[string]any{"server_type": "api", "protocol": "http", "port": float64(8080)},
		},
		{
			name:   "SecurityEvent",
			log:    func() { SecurityEvent("rate_limited", "api", "client", "10.0.0.1") },
			msg:    "security_event",
			fields: map[string]any{"event": "rate_limited", "component": "api", "client": "10.0.0.1", "level": "WARN"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := decodeLine(t, captureLogOutput(tt.log))
			if rec["msg"] != tt.msg {
				t.Errorf("msg = %v, want %s", rec["msg"], tt.msg)
			}
			for k, want := range tt.fields {
				if rec[k] != want {
					t.Errorf("%s = %v (%T), want %v", k, rec[k], rec[k], want)
				}
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	t.Run("generates uuid", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if _, err := uuid.Parse(seen); err != nil {
			t.Errorf("generated id %q is not a uuid: %v", seen, err)
		}
		if rec.Header().Get("X-Request-ID") != seen {
			t.Errorf("header = %q, context = %q", rec.Header().Get("X-Request-ID"), seen)
		}
	})

	t.Run("keeps client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "client-abc")
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if seen != "client-abc" {
			t.Errorf("id = %q, want client-abc", seen)
		}
	})

	t.Run("replaces oversized id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", strings.Repeat("x", maxRequestIDLength+1))
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if len(seen) > maxRequestIDLength {
			t.Errorf("oversized id was kept")
		}
	})
}

func TestCombinedMiddlewareLogsStatus(t *testing.T) {
	handler := CombinedMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	out := captureLogOutput(func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/search?q=light", nil))
	})

	rec := decodeLine(t, out)
	if rec["msg"] != "http_request" {
		t.Fatalf("msg = %v", rec["msg"])
	}
	if rec["status_code"] != float64(http.StatusTeapot) {
		t.Errorf("status_code = %v, want 418", rec["status_code"])
	}
	if rec["path"] != "/search" {
		t.Errorf("path = %v, want /search", rec["path"])
	}
	if id, _ := rec["request_id"].(string); id == "" {
		t.Error("request_id missing from access log")
	}
}

func TestResponseWriterDefaultsToOK(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}
	_, _ = rw.Write([]byte("x"))
	rw.WriteHeader(http.StatusInternalServerError)
	if rw.statusCode != http.StatusOK || rec.Code != http.StatusOK {
		t.Errorf("status = %d/%d, want 200", rw.statusCode, rec.Code)
	}
	if rw.Unwrap() != rec {
		t.Error("Unwrap did not return the wrapped writer")
	}
	if _, _, err := rw.Hijack(); err == nil {
		t.Error("Hijack on a recorder should fail")
	}
}
