// Package filestore keeps the collections as JSON documents on disk.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"codeguess/internal/models"
)

const (
	usersFile       = "users.json"
	leaderboardFile = "leaderboard.json"
)

type Store struct {
	dir string
}

// New creates dir and seeds any missing collection file with an empty value.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &Store{dir: dir}

	seeds := []struct {
		name  string
		value any
	}{
		{usersFile, []models.User{}},
		{leaderboardFile, models.Board{}},
	}
	for _, seed := range seeds {
		if _, err := os.Stat(s.path(seed.name)); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat %s: %w", seed.name, err)
		}
		if err := s.write(seed.name, seed.value); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *Store) LoadUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.read(usersFile, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (s *Store) SaveUsers(ctx context.Context, users []models.User) error {
	if users == nil {
		users = []models.User{}
	}
	return s.write(usersFile, users)
}

func (s *Store) LoadLeaderboard(ctx context.Context) (models.Board, error) {
	board := models.Board{}
	if err := s.read(leaderboardFile, &board); err != nil {
		return nil, err
	}
	if board == nil {
		board = models.Board{}
	}
	return board, nil
}

func (s *Store) SaveLeaderboard(ctx context.Context, board models.Board) error {
	if board == nil {
		board = models.Board{}
	}
	return s.write(leaderboardFile, board)
}

func (s *Store) Close(ctx context.Context) error {
	return nil
}

// read decodes name into dst. A missing file leaves dst untouched.
func (s *Store) read(name string, dst any) error {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// write replaces name atomically via a temp file in the same directory.
func (s *Store) write(name string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
