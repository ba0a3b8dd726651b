// Package account registers players and checks their credentials.
package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"codeguess/internal/apperr"
	"codeguess/internal/models"
	"codeguess/internal/storage"
)

const msgBadCredentials = "Invalid username or password"

type Store struct {
	users  storage.UserStore
	logger *slog.Logger
	now    func() time.Time

	// mu serializes load-modify-save of the user collection.
	mu sync.Mutex
}

func NewStore(users storage.UserStore, logger *slog.Logger) *Store {
	return &Store{
		users:  users,
		logger: logger,
		now:    time.Now,
	}
}

// Canonical returns the identity key for a username.
func Canonical(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Register validates the input, stores a new user and returns it.
func (s *Store) Register(ctx context.Context, usernameRaw, passwordRaw string) (models.User, error) {
	username := strings.TrimSpace(usernameRaw)
	if err := ValidateUsername(username); err != nil {
		return models.User{}, err
	}
	if err := ValidatePassword(passwordRaw); err != nil {
		return models.User{}, err
	}
	usernameLower := strings.ToLower(username)

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users.LoadUsers(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("load users: %w", err)
	}
	for _, u := range users {
		if u.UsernameLower == usernameLower {
			return models.User{}, apperr.Conflict("Username already taken")
		}
	}

	hash, err := HashPassword(passwordRaw)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Username:      username,
		UsernameLower: usernameLower,
		PasswordHash:  hash,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.users.SaveUsers(ctx, append(users, user)); err != nil {
		return models.User{}, fmt.Errorf("save users: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", slog.String("username", usernameLower))
	return user, nil
}

// Login returns the user for valid credentials. Unknown users and wrong
// passwords fail with the same error.
func (s *Store) Login(ctx context.Context, usernameRaw, passwordRaw string) (models.User, error) {
	user, ok, err := s.Lookup(ctx, Canonical(usernameRaw))
	if err != nil {
		return models.User{}, err
	}
	if !ok || !VerifyPassword(passwordRaw, user.PasswordHash) {
		s.logger.WarnContext(ctx, "login failed", slog.String("username", Canonical(usernameRaw)))
		return models.User{}, apperr.Auth(msgBadCredentials)
	}
	return user, nil
}

// Lookup finds a user by canonical username.
func (s *Store) Lookup(ctx context.Context, usernameLower string) (models.User, bool, error) {
	users, err := s.users.LoadUsers(ctx)
	if err != nil {
		return models.User{}, false, fmt.Errorf("load users: %w", err)
	}
	for _, u := range users {
		if u.UsernameLower == usernameLower {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}

// DisplayNames maps canonical usernames to their display form.
func (s *Store) DisplayNames(ctx context.Context) (map[string]string, error) {
	users, err := s.users.LoadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.UsernameLower] = u.Username
	}
	return names, nil
}
