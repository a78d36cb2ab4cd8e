package services

import (
	"context"
	"testing"

	"friends-challenge-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaderboardFixture(t *testing.T) *LeaderboardService {
	t.Helper()

	users := newFakeUserStore(
		&models.User{ID: "a", Username: "alice", WeekScore: 100},
		&models.User{ID: "b", Username: "bob", WeekScore: 90},
		&models.User{ID: "c", Username: "carol", WeekScore: 80},
	)
	friends := newFakeFriendStore(users)

	friendSvc := NewFriendService(friends, users, nil)
	ctx := context.Background()
	for _, pair := range [][2]string{{"a", "b"}, {"a", "c"}, {"b", "c"}} {
		require.NoError(t, friendSvc.SendRequest(ctx, pair[0], pair[1]))
		require.NoError(t, friendSvc.Accept(ctx, pair[1], pair[0]))
	}

	return NewLeaderboardService(friends, users)
}

func TestLeaderboardService_Ordering(t *testing.T) {
	t.Parallel()

	svc := leaderboardFixture(t)

	board, err := svc.Get(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, board.Entries, 3)

	assert.Equal(t, []string{"alice", "bob", "carol"}, []string{
		board.Entries[0].Username, board.Entries[1].Username, board.Entries[2].Username,
	})
	assert.Equal(t, 1, board.Entries[0].Rank)
	assert.Equal(t, 2, board.Entries[1].Rank)
	assert.Equal(t, 3, board.Entries[2].Rank)
	assert.Equal(t, 1, board.Position)
}

func TestLeaderboardService_PositionLookup(t *testing.T) {
	t.Parallel()

	svc := leaderboardFixture(t)

	board, err := svc.Get(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, 2, board.Position)
}

func TestLeaderboardService_ExcludesPendingFriends(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore(
		&models.User{ID: "a", Username: "alice", WeekScore: 50},
		&models.User{ID: "b", Username: "bob", WeekScore: 60},
	)
	friends := newFakeFriendStore(users)
	friendSvc := NewFriendService(friends, users, nil)
	require.NoError(t, friendSvc.SendRequest(context.Background(), "a", "b"))

	board, err := NewLeaderboardService(friends, users).Get(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, board.Entries, 1)
	assert.Equal(t, "alice", board.Entries[0].Username)
}
