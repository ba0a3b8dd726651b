package mongostore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeguess/internal/models"
)

func TestDocsRoundTrip(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	board := models.Board{
		"bob": {
			"C/C++":   {{Username: "bob", Score: 3, TimeLeft: 1, At: at}},
			"my.lang": {{Username: "bob", Score: 1, At: at}},
		},
		"eve": {},
	}

	docs := toDocs(board)
	require.Len(t, docs, 2)
	assert.Equal(t, board, fromDocs(docs))
}

func TestFromDocs_NilEntries(t *testing.T) {
	board := fromDocs([]boardDoc{{UsernameLower: "bob", Languages: []languageDoc{{Language: "Go"}}}})
	require.Contains(t, board["bob"], "Go")
	assert.NotNil(t, board["bob"]["Go"])
	assert.Empty(t, board["bob"]["Go"])
}

// TestStore_Integration runs against a live server when CODEGUESS_TEST_MONGODB_URI is set.
func TestStore_Integration(t *testing.T) {
	uri := os.Getenv("CODEGUESS_TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("CODEGUESS_TEST_MONGODB_URI not set")
	}

	ctx := context.Background()
	s, err := New(ctx, uri, "codeguess_test_"+time.Now().Format("20060102150405"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.db.Drop(context.Background())
		_ = s.Close(context.Background())
	})

	at := time.Now().UTC().Truncate(time.Millisecond)
	users := []models.User{
		{Username: "Bob", UsernameLower: "bob", PasswordHash: "a:b", CreatedAt: at},
		{Username: "eve", UsernameLower: "eve", PasswordHash: "c:d", CreatedAt: at.Add(time.Second)},
	}
	require.NoError(t, s.SaveUsers(ctx, users))
	got, err := s.LoadUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, users, got)

	require.NoError(t, s.SaveUsers(ctx, users[1:]))
	got, err = s.LoadUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, users[1:], got)

	board := models.Board{"bob": {"Go": {{Username: "Bob", Score: 42, TimeLeft: 7, At: at}}}}
	require.NoError(t, s.SaveLeaderboard(ctx, board))
	gotBoard, err := s.LoadLeaderboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, board, gotBoard)
}
