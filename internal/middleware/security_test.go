package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSecureHeadersOnStorefrontResponses(t *testing.T) {
	rl, _ := newTestLimiter(t, "login", 0, time.Minute)

	tests := []struct {
		name     string
		method   string
		path     string
		next     http.Handler
		wantCode int
	}{
		{"public product page", http.MethodGet, "/acme/products/red-shirt", limitedOK(), http.StatusOK},
		{"seller dashboard", http.MethodGet, "/dashboard/seller/stores", limitedOK(), http.StatusOK},
		{"rate limited login", http.MethodPost, "/dashboard/login", rl.Middleware(limitedOK()), http.StatusTooManyRequests},
		{"recovered panic", http.MethodPost, "/dashboard/uploads", Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("decode")
		})), http.StatusInternalServerError},
	}

	want := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "SAMEORIGIN",
		"X-XSS-Protection":        "0",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
		"Permissions-Policy":      "interest-cohort=()",
		"Content-Security-Policy": contentSecurityPolicy,
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureLog(t)
			rr := httptest.NewRecorder()
			SecureHeaders(tt.next).ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

			if rr.Code != tt.wantCode {
				t.Fatalf("status: got %d, want %d", rr.Code, tt.wantCode)
			}
			for header, value := range want {
				if got := rr.Header().Get(header); got != value {
					t.Errorf("%s: got %q, want %q", header, got, value)
				}
			}
		})
	}
}

func TestContentSecurityPolicySources(t *testing.T) {
	tests := []struct {
		directive string
		source    string
	}{
		{"img-src", "https:"},
		{"script-src", "https://unpkg.com"},
		{"frame-ancestors", "'self'"},
	}
	for _, tt := range tests {
		t.Run(tt.directive, func(t *testing.T) {
			for _, d := range strings.Split(contentSecurityPolicy, ";") {
				fields := strings.Fields(d)
				if len(fields) == 0 || fields[0] != tt.directive {
					continue
				}
				for _, src := range fields[1:] {
					if src == tt.source {
						return
					}
				}
				t.Fatalf("%s lacks %s: %q", tt.directive, tt.source, d)
			}
			t.Fatalf("no %s directive", tt.directive)
		})
	}
}
