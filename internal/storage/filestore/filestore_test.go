package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeguess/internal/models"
)

func TestNew_SeedsEmptyCollections(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "app-data")
	_, err := New(dir)
	require.NoError(t, err)

	users, err := os.ReadFile(filepath.Join(dir, usersFile))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(users))

	board, err := os.ReadFile(filepath.Join(dir, leaderboardFile))
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(board))
}

func TestNew_KeepsExistingData(t *testing.T) {
	dir := t.TempDir()
	existing := `[{"username":"Bob","usernameLower":"bob","passwordHash":"aa:bb","createdAt":"2024-01-01T00:00:00Z"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, usersFile), []byte(existing), 0o644))

	s, err := New(dir)
	require.NoError(t, err)

	users, err := s.LoadUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].UsernameLower)
}

func TestUsersRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	require.NoError(t, err)

	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	want := []models.User{
		{Username: "Alice", UsernameLower: "alice", PasswordHash: "s:h", CreatedAt: created},
		{Username: "bob", UsernameLower: "bob", PasswordHash: "s2:h2", CreatedAt: created.Add(time.Minute)},
	}
	require.NoError(t, s.SaveUsers(ctx, want))

	got, err := s.LoadUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLeaderboardRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	require.NoError(t, err)

	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	want := models.Board{
		"bob": {"Go": {{Username: "bob", Score: 42, TimeLeft: 7, At: at}}},
		"eve": {},
	}
	require.NoError(t, s.SaveLeaderboard(ctx, want))

	got, err := s.LoadLeaderboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoad_MissingFilesAreEmpty(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, usersFile)))
	require.NoError(t, os.Remove(filepath.Join(dir, leaderboardFile)))

	users, err := s.LoadUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	board, err := s.LoadLeaderboard(ctx)
	require.NoError(t, err)
	assert.Empty(t, board)
}

func TestLoad_CorruptFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, leaderboardFile), []byte("{not json"), 0o644))

	_, err = s.LoadLeaderboard(context.Background())
	assert.ErrorContains(t, err, "decode leaderboard.json")
}

func TestWrite_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, s.SaveUsers(context.Background(), nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{usersFile, leaderboardFile}, names)
}
