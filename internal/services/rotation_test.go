package services

import (
	"context"
	"testing"
	"time"

	"friends-challenge-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotationService_OpenVoting(t *testing.T) {
	t.Parallel()

	settings := &fakeSettingsStore{}
	session := NewSessionService(settings, time.Minute)
	svc := NewRotationService(newFakeChallengeStore(nil), newFakeVoteStore(), newFakeUserStore(), session, nil)

	require.NoError(t, svc.OpenVoting(context.Background()))
	assert.True(t, settings.votingOpen)

	open, err := session.VotingOpen(context.Background())
	require.NoError(t, err)
	assert.True(t, open, "cache must not serve the pre-toggle value")
}

func TestRotationService_ClosePeriod(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore(
		&models.User{ID: "a", Username: "alice"},
		&models.User{ID: "b", Username: "bob"},
	)
	challenges := newFakeChallengeStore(
		&models.Challenge{ID: "ch1", Title: "Best sunset", Status: models.ChallengeWeekly},
		&models.Challenge{ID: "ch2", Title: "Best breakfast", Status: models.ChallengeQueued},
	)
	votes := newFakeVoteStore()
	settings := &fakeSettingsStore{votingOpen: true}
	session := NewSessionService(settings, time.Minute)
	svc := NewRotationService(challenges, votes, users, session, nil)
	ctx := context.Background()

	require.NoError(t, votes.Upsert(ctx, &models.Vote{ChallengeID: "ch1", ParticipantID: "a", VoterID: "b", Rating: 8}))
	require.NoError(t, votes.Upsert(ctx, &models.Vote{ChallengeID: "ch1", ParticipantID: "a", VoterID: "c", Rating: 6}))
	require.NoError(t, votes.Upsert(ctx, &models.Vote{ChallengeID: "ch1", ParticipantID: "b", VoterID: "a", Rating: 10}))
	require.NoError(t, users.SetVotingDone(ctx, "a", true))

	require.NoError(t, svc.ClosePeriod(ctx))

	assert.Equal(t, 7.0, users.weekScores["a"], "week score is the average received rating")
	assert.Equal(t, 10.0, users.weekScores["b"])
	assert.False(t, users.votingDone["a"], "voting flags reset for the new period")
	assert.False(t, settings.votingOpen)

	weekly, err := challenges.GetWeekly(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ch2", weekly.ID)
	assert.Equal(t, models.ChallengeWeekly, weekly.Status)
}

func TestRotationService_ClosePeriodEmptyQueue(t *testing.T) {
	t.Parallel()

	challenges := newFakeChallengeStore(&models.Challenge{ID: "ch1", Status: models.ChallengeWeekly})
	settings := &fakeSettingsStore{votingOpen: true}
	session := NewSessionService(settings, time.Minute)
	svc := NewRotationService(challenges, newFakeVoteStore(), newFakeUserStore(), session, nil)
	ctx := context.Background()

	require.NoError(t, svc.ClosePeriod(ctx))

	assert.False(t, settings.votingOpen)
	_, err := challenges.GetWeekly(ctx)
	assert.True(t, IsNotFound(err), "closed period leaves no weekly challenge when the queue is empty")
}

func TestRotationService_ClosePeriodWithoutWeekly(t *testing.T) {
	t.Parallel()

	challenges := newFakeChallengeStore(nil, &models.Challenge{ID: "ch2", Status: models.ChallengeQueued})
	session := NewSessionService(&fakeSettingsStore{}, time.Minute)
	svc := NewRotationService(challenges, newFakeVoteStore(), newFakeUserStore(), session, nil)

	require.NoError(t, svc.ClosePeriod(context.Background()))

	weekly, err := challenges.GetWeekly(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ch2", weekly.ID)
}
