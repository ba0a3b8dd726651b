package server

import (
	"context"
	"errors"
	"net/http"

	"codeguess/internal/apperr"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	u, err := s.accounts.Register(ctx, req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.metrics.accounts.WithLabelValues("register").Inc()
	token := s.sessions.Create(u.UsernameLower)
	writeJSON(w, http.StatusOK, sessionResp{Token: token, Username: u.Username})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	u, err := s.accounts.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrAuth) {
			s.metrics.accounts.WithLabelValues("login_failed").Inc()
		}
		s.writeError(w, r, err)
		return
	}

	s.metrics.accounts.WithLabelValues("login").Inc()
	token := s.sessions.Create(u.UsernameLower)
	writeJSON(w, http.StatusOK, sessionResp{Token: token, Username: u.Username})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Revoke(tokenFromContext(r.Context()))
	s.metrics.accounts.WithLabelValues("logout").Inc()
	writeJSON(w, http.StatusOK, okResp{OK: true})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, _ := userFromContext(r.Context())
	writeJSON(w, http.StatusOK, meResp{Username: u.Username})
}
