package services

import (
	"context"
	"testing"

	"friends-challenge-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUsers() *fakeUserStore {
	return newFakeUserStore(
		&models.User{ID: "a", Username: "alice", Email: "a@example.com"},
		&models.User{ID: "b", Username: "bob", Email: "b@example.com"},
		&models.User{ID: "c", Username: "bonnie", Email: "c@example.com"},
	)
}

func TestFriendService_SendRequestWritesBothSides(t *testing.T) {
	t.Parallel()

	users := testUsers()
	friends := newFakeFriendStore(users)
	svc := NewFriendService(friends, users, nil)
	ctx := context.Background()

	require.NoError(t, svc.SendRequest(ctx, "a", "b"))

	sender, err := friends.Get(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, models.FriendPending, sender.Status)
	assert.Equal(t, "a", sender.RequestedBy)

	recipient, err := friends.Get(ctx, "b", "a")
	require.NoError(t, err)
	assert.Equal(t, models.FriendRequested, recipient.Status)
	assert.Equal(t, "a", recipient.RequestedBy)
}

func TestFriendService_ResendDoesNotDuplicate(t *testing.T) {
	t.Parallel()

	users := testUsers()
	friends := newFakeFriendStore(users)
	svc := NewFriendService(friends, users, nil)
	ctx := context.Background()

	require.NoError(t, svc.SendRequest(ctx, "a", "b"))
	require.NoError(t, svc.SendRequest(ctx, "a", "b"))

	assert.Len(t, friends.relations, 2)
}

func TestFriendService_SendRequestToSelf(t *testing.T) {
	t.Parallel()

	users := testUsers()
	svc := NewFriendService(newFakeFriendStore(users), users, nil)

	err := svc.SendRequest(context.Background(), "a", "a")
	assert.ErrorIs(t, err, ErrSelfRequest)
}

func TestFriendService_AcceptFlipsBothSides(t *testing.T) {
	t.Parallel()

	users := testUsers()
	friends := newFakeFriendStore(users)
	svc := NewFriendService(friends, users, nil)
	ctx := context.Background()

	require.NoError(t, svc.SendRequest(ctx, "a", "b"))
	require.NoError(t, svc.Accept(ctx, "b", "a"))

	for _, pair := range [][2]string{{"a", "b"}, {"b", "a"}} {
		rel, err := friends.Get(ctx, pair[0], pair[1])
		require.NoError(t, err)
		assert.Equal(t, models.FriendAccepted, rel.Status)
	}
}

func TestFriendService_RejectFlipsBothSides(t *testing.T) {
	t.Parallel()

	users := testUsers()
	friends := newFakeFriendStore(users)
	svc := NewFriendService(friends, users, nil)
	ctx := context.Background()

	require.NoError(t, svc.SendRequest(ctx, "a", "b"))
	require.NoError(t, svc.Reject(ctx, "b", "a"))

	rel, err := friends.Get(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, models.FriendRejected, rel.Status)
}

func TestFriendService_OnlyAddresseeCanAnswer(t *testing.T) {
	t.Parallel()

	users := testUsers()
	friends := newFakeFriendStore(users)
	svc := NewFriendService(friends, users, nil)
	ctx := context.Background()

	require.NoError(t, svc.SendRequest(ctx, "a", "b"))

	// the sender cannot accept their own request
	err := svc.Accept(ctx, "a", "b")
	assert.ErrorIs(t, err, ErrNotAddressee)

	// accepting twice fails: the relation is no longer an open request
	require.NoError(t, svc.Accept(ctx, "b", "a"))
	err = svc.Accept(ctx, "b", "a")
	assert.ErrorIs(t, err, ErrNotAddressee)
}

func TestFriendService_SearchExcludesSelfAndAccepted(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore(
		&models.User{ID: "a", Username: "bart", Email: "a@example.com"},
		&models.User{ID: "b", Username: "bob", Email: "b@example.com"},
		&models.User{ID: "c", Username: "bonnie", Email: "c@example.com"},
		&models.User{ID: "d", Username: "boris", Email: "d@example.com"},
	)
	friends := newFakeFriendStore(users)
	svc := NewFriendService(friends, users, nil)
	ctx := context.Background()

	// b is an accepted friend, c has an open request from a
	require.NoError(t, svc.SendRequest(ctx, "a", "b"))
	require.NoError(t, svc.Accept(ctx, "b", "a"))
	require.NoError(t, svc.SendRequest(ctx, "a", "c"))

	results, err := svc.Search(ctx, "a", "bo")
	require.NoError(t, err)

	byID := make(map[string]SearchResult)
	for _, res := range results {
		byID[res.UserID] = res
	}

	assert.NotContains(t, byID, "a", "searcher must never see themselves")
	assert.NotContains(t, byID, "b", "accepted friends are filtered out")
	require.Contains(t, byID, "c")
	assert.True(t, byID["c"].AlreadyRequested)
	require.Contains(t, byID, "d")
	assert.False(t, byID["d"].AlreadyRequested)
}

func TestFriendService_ListFriendsCarriesProfile(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore(
		&models.User{ID: "a", Username: "alice", Email: "a@example.com"},
		&models.User{ID: "b", Username: "bob", Email: "b@example.com", WeekScore: 42, TotalScore: 99},
	)
	friends := newFakeFriendStore(users)
	svc := NewFriendService(friends, users, nil)
	ctx := context.Background()

	require.NoError(t, svc.SendRequest(ctx, "a", "b"))
	require.NoError(t, svc.Accept(ctx, "b", "a"))

	// counterpart name and scores come from the user record, not the relation row
	list, err := svc.ListFriends(ctx, "a")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "bob", list[0].FriendName)
	assert.Equal(t, 42.0, list[0].WeekScore)
	assert.Equal(t, 99.0, list[0].TotalScore)
}

func TestFriendService_ListRequests(t *testing.T) {
	t.Parallel()

	users := testUsers()
	friends := newFakeFriendStore(users)
	svc := NewFriendService(friends, users, nil)
	ctx := context.Background()

	require.NoError(t, svc.SendRequest(ctx, "a", "b"))

	requests, err := svc.ListRequests(ctx, "b")
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "a", requests[0].FriendID)

	// the sender sees no incoming request
	requests, err = svc.ListRequests(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, requests)
}
