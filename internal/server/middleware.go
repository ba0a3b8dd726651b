package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"codeguess/internal/apperr"
	"codeguess/internal/models"
	"codeguess/internal/session"
)

type ctxUserKey struct{}

type ctxTokenKey struct{}

// statusRecorder captures the status code and body size of a response.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written int64
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// observe logs every request and records its route metrics. Passwords and
// tokens travel in bodies and headers, neither of which is logged.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		s.metrics.requests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		s.metrics.duration.WithLabelValues(route).Observe(elapsed.Seconds())

		level := slog.LevelDebug
		switch {
		case rec.status >= 500:
			level = slog.LevelError
		case rec.status >= 400:
			level = slog.LevelWarn
		case r.Method != http.MethodGet:
			level = slog.LevelInfo
		}
		s.logger.Log(r.Context(), level, "http request",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", clientIP(r)),
			slog.Int("status", rec.status),
			slog.Int64("duration_ms", elapsed.Milliseconds()),
			slog.Int64("bytes_written", rec.written),
		)
	})
}

func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				s.logger.ErrorContext(r.Context(), "panic recovered",
					slog.String("error", fmt.Sprint(v)),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())),
				)
				writeMessage(w, http.StatusInternalServerError, msgServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) withSecurity(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set(
			"Content-Security-Policy",
			"default-src 'self'; style-src 'self' 'unsafe-inline'; script-src 'self' 'unsafe-inline'; base-uri 'self'; frame-ancestors 'none'",
		)

		if r.Method == http.MethodPost ||
			r.Method == http.MethodPut ||
			r.Method == http.MethodPatch ||
			r.Method == http.MethodDelete {
			if !s.devMode && !isSameOrigin(r) {
				writeMessage(w, http.StatusForbidden, msgBadOrigin)
				return
			}
		}

		if _, ok := s.rateLimited[r.URL.Path]; ok {
			if !s.allowRequest(r) {
				writeMessage(w, http.StatusTooManyRequests, msgTooMany)
				return
			}
		}

		next(w, r)
	}
}

func isSameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	host := r.Host
	return origin == "http://"+host || origin == "https://"+host
}

// allowRequest applies a sliding window limit per client IP.
func (s *Server) allowRequest(r *http.Request) bool {
	ip := clientIP(r)
	now := time.Now()

	s.rateMu.Lock()
	defer s.rateMu.Unlock()

	hits := s.rateByIP[ip]
	keep := hits[:0]
	cutoff := now.Add(-loginRateWindow)

	for _, t := range hits {
		if t.After(cutoff) {
			keep = append(keep, t)
		}
	}

	if len(keep) >= loginRateMaxHits {
		s.rateByIP[ip] = keep
		return false
	}

	s.rateByIP[ip] = append(keep, now)
	return true
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, token, err := s.authenticate(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserKey{}, u)
		ctx = context.WithValue(ctx, ctxTokenKey{}, token)
		next(w, r.WithContext(ctx))
	}
}

// authenticate resolves the request's token to a live account. A session
// whose account has disappeared is revoked on the spot.
func (s *Server) authenticate(r *http.Request) (models.User, string, error) {
	token := session.ExtractToken(
		r.Header.Get(session.HeaderAuthorization),
		r.Header.Get(session.HeaderAuthToken),
	)
	if token == "" {
		return models.User{}, "", apperr.Auth(msgAuthRequired)
	}

	usernameLower, ok := s.sessions.Resolve(token)
	if !ok {
		return models.User{}, "", apperr.Auth(msgBadSession)
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	u, found, err := s.accounts.Lookup(ctx, usernameLower)
	if err != nil {
		return models.User{}, "", err
	}
	if !found {
		s.sessions.Revoke(token)
		return models.User{}, "", apperr.Auth(msgUserNotFound)
	}
	return u, token, nil
}

func userFromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(ctxUserKey{}).(models.User)
	return u, ok
}

func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(ctxTokenKey{}).(string)
	return token
}
