package server

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/agbru/numkit/internal/config"
)

func TestDefaultSecurityConfig(t *testing.T) {
	t.Parallel()
	want := SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		MaxAge:         3600,
		MaxBodyBytes:   1 << 20,
	}
	if diff := cmp.Diff(want, DefaultSecurityConfig()); diff != "" {
		t.Errorf("DefaultSecurityConfig mismatch (-want +got):\n%s", diff)
	}
}

func TestSecurityConfigFrom(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.AllowedOrigins = []string{"http://a.example"}
	cfg.MaxBodyBytes = 512

	sc := SecurityConfigFrom(cfg)
	if !sc.EnableCORS || sc.AllowedOrigins[0] != "http://a.example" || sc.MaxBodyBytes != 512 {
		t.Errorf("SecurityConfigFrom = %+v", sc)
	}

	cfg.AllowedOrigins = nil
	if SecurityConfigFrom(cfg).EnableCORS {
		t.Error("CORS should be disabled without allowed origins")
	}
}

func TestSecurityMiddleware_Headers(t *testing.T) {
	t.Parallel()
	for _, method := range []string{"GET", "POST", "DELETE"} {
		t.Run(method, func(t *testing.T) {
			t.Parallel()
			called := false
			h := SecurityMiddleware(DefaultSecurityConfig(), func(w http.ResponseWriter, r *http.Request) {
				called = true
				_, _ = io.WriteString(w, "ok")
			})
			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(method, "/v1/call", http.NoBody))

			if !called || rec.Body.String() != "ok" {
				t.Errorf("next handler not reached: called=%v body=%q", called, rec.Body.String())
			}
			want := map[string]string{
				"X-Content-Type-Options":  "nosniff",
				"X-Frame-Options":         "DENY",
				"X-XSS-Protection":        "1; mode=block",
				"Referrer-Policy":         "strict-origin-when-cross-origin",
				"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
			}
			for k, v := range want {
				if got := rec.Header().Get(k); got != v {
					t.Errorf("%s = %q, want %q", k, got, v)
				}
			}
		})
	}
}

func TestSecurityMiddleware_CORS(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		origins []string
		enabled bool
		origin  string
		want    string // expected Access-Control-Allow-Origin; "" means none
	}{
		{"disabled", []string{"*"}, false, "http://a.example", ""},
		{"wildcard", []string{"*"}, true, "http://a.example", "*"},
		{"wildcard without origin", []string{"*"}, true, "", "*"},
		{"listed origin", []string{"http://a.example", "http://b.example"}, true, "http://b.example", "http://b.example"},
		{"unlisted origin", []string{"http://a.example"}, true, "http://evil.example", ""},
		{"no origin header", []string{"http://a.example"}, true, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultSecurityConfig()
			cfg.EnableCORS = tt.enabled
			cfg.AllowedOrigins = tt.origins

			req := httptest.NewRequest("POST", "/v1/call", http.NoBody)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			SecurityMiddleware(cfg, func(http.ResponseWriter, *http.Request) {})(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Fatalf("Access-Control-Allow-Origin = %q, want %q", got, tt.want)
			}
			if tt.want == "" {
				return
			}
			for _, h := range []string{"Access-Control-Allow-Methods", "Access-Control-Allow-Headers", "Access-Control-Max-Age"} {
				if rec.Header().Get(h) == "" {
					t.Errorf("%s should be set", h)
				}
			}
			if tt.want != "*" && rec.Header().Get("Vary") != "Origin" {
				t.Error("a specific origin should add Vary: Origin")
			}
		})
	}
}

func TestSecurityMiddleware_Preflight(t *testing.T) {
	t.Parallel()
	called := false
	h := SecurityMiddleware(DefaultSecurityConfig(), func(http.ResponseWriter, *http.Request) { called = true })

	req := httptest.NewRequest("OPTIONS", "/v1/objects", http.NoBody)
	req.Header.Set("Origin", "http://a.example")
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if called {
		t.Error("preflight must not reach the handler")
	}
	if rec.Header().Get("Access-Control-Allow-Methods") != "GET, POST, DELETE, OPTIONS" {
		t.Errorf("Allow-Methods = %q", rec.Header().Get("Access-Control-Allow-Methods"))
	}
}

func TestSecurityMiddleware_BodyLimit(t *testing.T) {
	t.Parallel()
	cfg := DefaultSecurityConfig()
	cfg.MaxBodyBytes = 8
	var readErr error
	h := SecurityMiddleware(cfg, func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	})
	h(httptest.NewRecorder(), httptest.NewRequest("POST", "/v1/call", strings.NewReader(strings.Repeat("x", 64))))

	var tooLarge *http.MaxBytesError
	if !errors.As(readErr, &tooLarge) {
		t.Errorf("read error = %v, want *http.MaxBytesError", readErr)
	}
}
