// Package boltstore keeps the collections in a single bbolt database file.
// Every save runs in one write transaction, so a crash never leaves a
// collection half written.
package boltstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.etcd.io/bbolt"

	"codeguess/internal/models"
)

var (
	bucketUsers       = []byte("users")
	bucketLeaderboard = []byte("leaderboard")
)

type Store struct {
	db *bbolt.DB
}

func New(ctx context.Context, dbPath string) (*Store, error) {
	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Store{db: db}
	if err := s.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}
	return s, nil
}

func (s *Store) Close(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketUsers, bucketLeaderboard} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// LoadUsers returns users ordered by registration time; bbolt itself
// iterates in key order.
func (s *Store) LoadUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketUsers).ForEach(func(k, v []byte) error {
			var u models.User
			if err := json.Unmarshal(v, &u); err != nil {
				return fmt.Errorf("failed to unmarshal user %q: %w", k, err)
			}
			users = append(users, u)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(users, func(a, b models.User) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return users, nil
}

func (s *Store) SaveUsers(ctx context.Context, users []models.User) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := resetBucket(tx, bucketUsers)
		if err != nil {
			return err
		}
		for _, u := range users {
			data, err := json.Marshal(u)
			if err != nil {
				return fmt.Errorf("failed to marshal user: %w", err)
			}
			if err := bucket.Put([]byte(u.UsernameLower), data); err != nil {
				return fmt.Errorf("failed to save user: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) LoadLeaderboard(ctx context.Context) (models.Board, error) {
	board := models.Board{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketLeaderboard).ForEach(func(k, v []byte) error {
			langs := models.Languages{}
			if err := json.Unmarshal(v, &langs); err != nil {
				return fmt.Errorf("failed to unmarshal board for %q: %w", k, err)
			}
			board[string(k)] = langs
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

func (s *Store) SaveLeaderboard(ctx context.Context, board models.Board) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := resetBucket(tx, bucketLeaderboard)
		if err != nil {
			return err
		}
		for user, langs := range board {
			if langs == nil {
				langs = models.Languages{}
			}
			data, err := json.Marshal(langs)
			if err != nil {
				return fmt.Errorf("failed to marshal board: %w", err)
			}
			if err := bucket.Put([]byte(user), data); err != nil {
				return fmt.Errorf("failed to save board: %w", err)
			}
		}
		return nil
	})
}

func resetBucket(tx *bbolt.Tx, name []byte) (*bbolt.Bucket, error) {
	if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
		return nil, fmt.Errorf("failed to clear %s bucket: %w", name, err)
	}
	bucket, err := tx.CreateBucket(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s bucket: %w", name, err)
	}
	return bucket, nil
}
