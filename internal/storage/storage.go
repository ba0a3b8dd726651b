// Package storage defines the persisted collections: users and leaderboard.
//
// Both collections are loaded and saved whole. Nothing here makes a
// load-modify-save cycle atomic; callers that mutate a collection must
// serialize their own cycles.
package storage

import (
	"context"

	"codeguess/internal/models"
)

type UserStore interface {
	// LoadUsers returns every user in registration order.
	// A missing collection loads as empty.
	LoadUsers(ctx context.Context) ([]models.User, error)

	// SaveUsers replaces the whole user collection.
	SaveUsers(ctx context.Context, users []models.User) error
}

type LeaderboardStore interface {
	// LoadLeaderboard returns every user's per-language lists.
	// A missing collection loads as empty.
	LoadLeaderboard(ctx context.Context) (models.Board, error)

	// SaveLeaderboard replaces the whole leaderboard collection.
	SaveLeaderboard(ctx context.Context, board models.Board) error
}

type Store interface {
	UserStore
	LeaderboardStore
	Close(ctx context.Context) error
}

const (
	BackendFile  = "file"
	BackendBolt  = "bolt"
	BackendMongo = "mongo"
)
