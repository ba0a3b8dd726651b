package models

import (
	"time"
)

type User struct {
	Username      string    `json:"username" bson:"username"`
	UsernameLower string    `json:"usernameLower" bson:"usernameLower"`
	PasswordHash  string    `json:"passwordHash" bson:"passwordHash"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

// Entry is one finished game on a leaderboard. Username is the display name
// at submission time.
type Entry struct {
	Username string    `json:"username" bson:"username"`
	Score    int64     `json:"score" bson:"score"`
	TimeLeft int64     `json:"timeLeft" bson:"timeLeft"`
	Round    int64     `json:"round" bson:"round"`
	At       time.Time `json:"at" bson:"at"`
}

// Languages maps a language tag to its ranked entries.
type Languages map[string][]Entry

// Board holds every user's per-language lists, keyed by canonical username.
type Board map[string]Languages

type SourceFile struct {
	Path     string `json:"path"`
	Language string `json:"language"`
}

type Sample struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}
