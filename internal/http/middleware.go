package http

import (
	"crypto/subtle"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopkart-io/storefront/internal/auth"
	rl "github.com/shopkart-io/storefront/internal/http/rate_limiter"
	"github.com/shopkart-io/storefront/internal/session"
)

// sessionFromRequest decodes the session cookie, treating every failure as
// "no session".
func sessionFromRequest(codec session.Codec, r *http.Request) (session.Session, bool) {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil {
		return session.Session{}, false
	}
	return codec.Decode(cookie.Value)
}

// PageGuard applies the route policy to page navigations. Only GET requests
// are guarded; API calls under the same prefixes authenticate themselves.
func PageGuard(codec session.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			var s *session.Session
			if decoded, ok := sessionFromRequest(codec, r); ok {
				s = &decoded
			}

			if target := session.Authorize(r.URL.Path, s); target != "" {
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}

			if s != nil {
				r = r.WithContext(session.NewContext(r.Context(), *s))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession rejects requests without a valid session cookie and puts the
// session on the request context.
func RequireSession(codec session.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := sessionFromRequest(codec, r)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "no session")
				return
			}
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
		})
	}
}

// AdminOnly gates mutating catalog calls. It accepts the shared x-admin-key
// header, or a bearer token with the admin role issued at login.
func AdminOnly(adminKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("x-admin-key")
			if key != "" && subtle.ConstantTimeCompare([]byte(key), []byte(adminKey)) == 1 {
				next.ServeHTTP(w, r)
				return
			}

			if authorization := r.Header.Get("Authorization"); authorization != "" {
				role, err := auth.TokenRole(authorization)
				if err == nil && role == "admin" {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
		})
	}
}

// RateLimit applies the per-IP limiter.
func RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !rl.GetVisitor(ip).Allow() {
			writeJSONError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs one line per request.
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", wrapped.status).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

// Recoverer turns panics into 500s instead of dropping the connection.
func Recoverer(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error().
						Interface("panic", rec).
						Str("path", r.URL.Path).
						Msg("panic recovered")
					writeJSONError(w, http.StatusInternalServerError, "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
