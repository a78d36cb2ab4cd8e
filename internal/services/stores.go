package services

import (
	"context"

	"friends-challenge-backend/internal/models"
)

// Store interfaces consumed by the services. The repository package provides
// the Postgres implementations; tests substitute fakes.

// UserStore persists users
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	SearchByUsername(ctx context.Context, prefix string, limit int) ([]*models.User, error)
	UpdatePushToken(ctx context.Context, userID string, pushToken *string) error
	SetVotingDone(ctx context.Context, userID string, done bool) error
	ApplyWeekScores(ctx context.Context, scores map[string]float64) error
}

// FriendStore persists directional friend relations
type FriendStore interface {
	UpsertPair(ctx context.Context, side, mirror *models.Friend) error
	UpdatePairStatus(ctx context.Context, userID, friendID string, status models.FriendStatus) error
	Get(ctx context.Context, userID, friendID string) (*models.Friend, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Friend, error)
	ListAcceptedIDs(ctx context.Context, userID string) ([]string, error)
}

// ChallengeStore persists challenges
type ChallengeStore interface {
	GetWeekly(ctx context.Context) (*models.Challenge, error)
	GetByID(ctx context.Context, id string) (*models.Challenge, error)
	Rotate(ctx context.Context) (*models.Challenge, error)
}

// ParticipationStore persists challenge participations
type ParticipationStore interface {
	Create(ctx context.Context, p *models.Participation) error
	Get(ctx context.Context, challengeID, userID string) (*models.Participation, error)
	Delete(ctx context.Context, challengeID, userID string) error
	ListByUsers(ctx context.Context, challengeID string, userIDs []string) ([]*models.Participation, error)
	HistoryByUser(ctx context.Context, userID string) ([]*models.HistoryEntry, error)
}

// VoteStore persists votes
type VoteStore interface {
	Upsert(ctx context.Context, vote *models.Vote) error
	CountByVoter(ctx context.Context, challengeID, voterID string, participantIDs []string) (int, error)
	AveragesByChallenge(ctx context.Context, challengeID string) (map[string]float64, error)
}

// SettingsStore persists the global settings row
type SettingsStore interface {
	Get(ctx context.Context) (*models.Settings, error)
	SetVotingOpen(ctx context.Context, open bool) error
}

// Uploader stores image blobs and returns their public URLs
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, imageURL string) error
}
