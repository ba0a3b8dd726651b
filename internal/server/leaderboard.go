package server

import (
	"context"
	"math"
	"net/http"

	"codeguess/internal/catalog"
	"codeguess/internal/leaderboard"
)

func (s *Server) handleGlobalLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	global, err := s.board.Global(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, leaderboardResp{Leaderboard: global})
}

func (s *Server) handleMyLeaderboard(w http.ResponseWriter, r *http.Request) {
	u, _ := userFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	mine, err := s.board.ForUser(ctx, u.UsernameLower)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, leaderboardResp{Leaderboard: mine})
}

func (s *Server) handleSubmitEntry(w http.ResponseWriter, r *http.Request) {
	u, _ := userFromContext(r.Context())

	var req entryReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	sub := req.submission()

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	if err := s.board.Submit(ctx, u, sub); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.metrics.scores.WithLabelValues(string(catalog.ParseLanguage(sub.Language))).Inc()
	writeJSON(w, http.StatusOK, okResp{OK: true})
}

func (s *Server) handleResetLeaderboard(w http.ResponseWriter, r *http.Request) {
	u, _ := userFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	if err := s.board.Reset(ctx, u.UsernameLower); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okResp{OK: true})
}

// submission converts loosely typed JSON into a Submission. Anything that
// is not a JSON number becomes NaN, which the aggregator treats as missing.
func (e entryReq) submission() leaderboard.Submission {
	language, _ := e.Language.(string)
	return leaderboard.Submission{
		Language: language,
		Score:    number(e.Score),
		TimeLeft: number(e.TimeLeft),
		Round:    number(e.Round),
	}
}

func number(v any) float64 {
	f, ok := v.(float64)
	if !ok {
		return math.NaN()
	}
	return f
}
