package server

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/agbru/numkit/internal/config"
)

// SecurityConfig controls the headers added to every response and the
// limits applied to request bodies.
type SecurityConfig struct {
	// EnableCORS adds Access-Control-* headers for allowed origins.
	EnableCORS bool
	// AllowedOrigins lists accepted origins; "*" accepts any.
	AllowedOrigins []string
	// AllowedMethods is sent in Access-Control-Allow-Methods.
	AllowedMethods []string
	// MaxAge is the preflight cache lifetime in seconds.
	MaxAge int
	// MaxBodyBytes caps the size of request bodies.
	MaxBodyBytes int64
}

// DefaultSecurityConfig returns a permissive CORS setup suitable for local
// use.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		MaxAge:         3600,
		MaxBodyBytes:   config.DefaultMaxBodyBytes,
	}
}

// SecurityConfigFrom derives the security settings from the application
// configuration.
func SecurityConfigFrom(cfg config.AppConfig) SecurityConfig {
	sc := DefaultSecurityConfig()
	sc.AllowedOrigins = cfg.AllowedOrigins
	sc.EnableCORS = len(cfg.AllowedOrigins) > 0
	if cfg.MaxBodyBytes > 0 {
		sc.MaxBodyBytes = cfg.MaxBodyBytes
	}
	return sc
}

// SecurityMiddleware sets security headers, answers CORS preflight
// requests and caps the request body.
func SecurityMiddleware(cfg SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		if cfg.EnableCORS {
			if origin, ok := allowedOrigin(cfg.AllowedOrigins, r.Header.Get("Origin")); ok {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowedMethods, ", "))
				h.Set("Access-Control-Allow-Headers", "Content-Type")
				h.Set("Access-Control-Max-Age", strconv.Itoa(max(cfg.MaxAge, 0)))
				if origin != "*" {
					h.Add("Vary", "Origin")
				}
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if cfg.MaxBodyBytes > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxBodyBytes)
		}
		next(w, r)
	}
}

// allowedOrigin reports the value to send in Access-Control-Allow-Origin.
func allowedOrigin(allowed []string, origin string) (string, bool) {
	if slices.Contains(allowed, "*") {
		return "*", true
	}
	if origin != "" && slices.Contains(allowed, origin) {
		return origin, true
	}
	return "", false
}
