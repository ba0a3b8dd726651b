package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) setupRouter() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.observe)
	r.Use(s.recoverPanics)

	// Paths that accept credentials share the per-IP sliding window.
	s.rateLimited = map[string]struct{}{
		"/api/register": {},
		"/api/login":    {},
	}

	r.Route("/api", func(api chi.Router) {
		api.Post("/register", s.withSecurity(s.handleRegister))
		api.Post("/login", s.withSecurity(s.handleLogin))
		api.Post("/logout", s.withSecurity(s.requireAuth(s.handleLogout)))
		api.Get("/me", s.withSecurity(s.requireAuth(s.handleMe)))

		api.Get("/random-code", s.withSecurity(s.handleRandomCode))
		api.Get("/languages", s.withSecurity(s.handleLanguages))
		api.Get("/share.png", s.withSecurity(s.handleShareQR))

		api.Get("/leaderboard", s.withSecurity(s.handleGlobalLeaderboard))
		api.Delete("/leaderboard", s.withSecurity(s.requireAuth(s.handleResetLeaderboard)))
		api.Get("/leaderboard/me", s.withSecurity(s.requireAuth(s.handleMyLeaderboard)))
		api.Post("/leaderboard/entry", s.withSecurity(s.requireAuth(s.handleSubmitEntry)))
	})

	r.Get("/healthz", handleHealthz)
	r.Handle("/metrics", s.metrics.handler())

	r.Get("/", s.serveFile(s.indexFile))
	r.Get("/*", s.serveAnyStatic())

	s.router = r
}
