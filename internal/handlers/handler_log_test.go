package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/apperr"
)

// captureLogs routes the default logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestFailLogsEveryError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
		wantCode  int
	}{
		{"not found", apperr.NotFound(apperr.KindProduct), "level=WARN", http.StatusNotFound},
		{"unauthorized", apperr.Unauthorized("SELLER"), "level=WARN", http.StatusForbidden},
		{"duplicate", &apperr.DuplicateFieldError{Entity: apperr.KindStore, Field: "url"}, "level=WARN", http.StatusConflict},
		{"internal", errors.New("connection reset"), "level=ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)
			w := httptest.NewRecorder()

			fail(w, tt.err, "delete product failed", "id", "p1")

			if w.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", w.Code, tt.wantCode)
			}
			out := buf.String()
			if !strings.Contains(out, tt.wantLevel) || !strings.Contains(out, "delete product failed") {
				t.Errorf("log: %q", out)
			}
			if !strings.Contains(out, "id=p1") {
				t.Errorf("log should keep the request attributes: %q", out)
			}
		})
	}
}

func TestErrorFlashLogsValidation(t *testing.T) {
	buf := captureLogs(t)

	flash := errorFlash(apperr.Invalid("sizes", "Add at least one size"), "")

	if len(flash) != 1 || flash[0].Message != "Add at least one size" {
		t.Errorf("flash: %+v", flash)
	}
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "request rejected") {
		t.Errorf("log: %q", out)
	}
}
