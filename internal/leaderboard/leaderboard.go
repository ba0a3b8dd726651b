// Package leaderboard ranks finished games per player and across players.
package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"codeguess/internal/apperr"
	"codeguess/internal/models"
	"codeguess/internal/storage"
)

const (
	PerUserLimit = 10
	GlobalLimit  = 50
)

// DisplayNamer resolves canonical usernames to their display form.
type DisplayNamer interface {
	DisplayNames(ctx context.Context) (map[string]string, error)
}

// Submission is a finished game as reported by a client. Numbers arrive
// as JSON floats; NaN marks a missing or non-numeric field.
type Submission struct {
	Language string
	Score    float64
	TimeLeft float64
	Round    float64
}

type Aggregator struct {
	store  storage.LeaderboardStore
	names  DisplayNamer
	logger *slog.Logger
	now    func() time.Time

	// mu serializes load-modify-save of the leaderboard collection.
	mu sync.Mutex
}

func New(store storage.LeaderboardStore, names DisplayNamer, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		store:  store,
		names:  names,
		logger: logger,
		now:    time.Now,
	}
}

// Compare orders entries by score descending, then time left descending,
// then earliest submission first.
func Compare(a, b models.Entry) int {
	if a.Score != b.Score {
		if a.Score > b.Score {
			return -1
		}
		return 1
	}
	if a.TimeLeft != b.TimeLeft {
		if a.TimeLeft > b.TimeLeft {
			return -1
		}
		return 1
	}
	return a.At.Compare(b.At)
}

// Rank sorts entries in place and returns at most limit of them.
func Rank(entries []models.Entry, limit int) []models.Entry {
	slices.SortStableFunc(entries, Compare)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func (s Submission) entry(username string, at time.Time) (string, models.Entry, error) {
	language := strings.TrimSpace(s.Language)
	if language == "" {
		return "", models.Entry{}, apperr.Validation("Invalid language")
	}

	score, okScore := wholeNonNegative(s.Score)
	timeLeft, okTime := wholeNonNegative(s.TimeLeft)
	if !okScore || !okTime {
		return "", models.Entry{}, apperr.Validation("Invalid result parameters")
	}

	round, ok := wholeNonNegative(s.Round)
	if !ok {
		round = 0
	}

	return language, models.Entry{
		Username: username,
		Score:    score,
		TimeLeft: timeLeft,
		Round:    round,
		At:       at,
	}, nil
}

func wholeNonNegative(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Trunc(f)
	if f < 0 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// Submit records a finished game for user and keeps only their best
// PerUserLimit entries for that language.
func (a *Aggregator) Submit(ctx context.Context, user models.User, sub Submission) error {
	language, entry, err := sub.entry(user.Username, a.now().UTC())
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	board, err := a.store.LoadLeaderboard(ctx)
	if err != nil {
		return fmt.Errorf("load leaderboard: %w", err)
	}
	if board == nil {
		board = models.Board{}
	}

	langs := board[user.UsernameLower]
	if langs == nil {
		langs = models.Languages{}
		board[user.UsernameLower] = langs
	}
	langs[language] = Rank(append(langs[language], entry), PerUserLimit)

	if err := a.store.SaveLeaderboard(ctx, board); err != nil {
		return fmt.Errorf("save leaderboard: %w", err)
	}

	a.logger.InfoContext(ctx, "score submitted",
		slog.String("username", user.UsernameLower),
		slog.String("language", language),
		slog.Int64("score", entry.Score),
		slog.Int64("time_left", entry.TimeLeft),
	)
	return nil
}

// Global merges every player's lists into one ranking per language.
// Nothing is cached; every call reads the store.
func (a *Aggregator) Global(ctx context.Context) (models.Languages, error) {
	board, err := a.store.LoadLeaderboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	names, err := a.names.DisplayNames(ctx)
	if err != nil {
		return nil, err
	}

	global := models.Languages{}
	for _, usernameLower := range slices.Sorted(maps.Keys(board)) {
		display := names[usernameLower]
		if display == "" {
			display = usernameLower
		}

		langs := board[usernameLower]
		for _, language := range slices.Sorted(maps.Keys(langs)) {
			merged := global[language]
			if merged == nil {
				merged = []models.Entry{}
			}
			for _, e := range langs[language] {
				if strings.TrimSpace(e.Username) == "" {
					e.Username = display
				}
				merged = append(merged, e)
			}
			global[language] = merged
		}
	}

	for language, entries := range global {
		global[language] = Rank(entries, GlobalLimit)
	}
	return global, nil
}

// ForUser returns a copy of one player's lists.
func (a *Aggregator) ForUser(ctx context.Context, usernameLower string) (models.Languages, error) {
	board, err := a.store.LoadLeaderboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	out := models.Languages{}
	for language, entries := range board[usernameLower] {
		out[language] = slices.Clone(entries)
	}
	return out, nil
}

// Reset clears every list of one player.
func (a *Aggregator) Reset(ctx context.Context, usernameLower string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	board, err := a.store.LoadLeaderboard(ctx)
	if err != nil {
		return fmt.Errorf("load leaderboard: %w", err)
	}
	if board == nil {
		board = models.Board{}
	}
	board[usernameLower] = models.Languages{}

	if err := a.store.SaveLeaderboard(ctx, board); err != nil {
		return fmt.Errorf("save leaderboard: %w", err)
	}

	a.logger.InfoContext(ctx, "leaderboard reset", slog.String("username", usernameLower))
	return nil
}
