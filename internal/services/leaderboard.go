package services

import (
	"context"
	"sort"

	"friends-challenge-backend/internal/models"
)

// LeaderboardService builds the weekly ranking of a user and their friends
type LeaderboardService struct {
	friends FriendStore
	users   UserStore
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(friends FriendStore, users UserStore) *LeaderboardService {
	return &LeaderboardService{
		friends: friends,
		users:   users,
	}
}

// Get returns the user and their accepted friends ordered by week score,
// ranks assigned by position, plus the user's own position.
func (s *LeaderboardService) Get(ctx context.Context, userID string) (*models.Leaderboard, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	relations, err := s.friends.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := []models.LeaderboardEntry{{
		UserID:    user.ID,
		Username:  user.Username,
		WeekScore: user.WeekScore,
	}}
	for _, rel := range relations {
		if rel.Status != models.FriendAccepted {
			continue
		}
		entries = append(entries, models.LeaderboardEntry{
			UserID:    rel.FriendID,
			Username:  rel.FriendName,
			WeekScore: rel.WeekScore,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].WeekScore > entries[j].WeekScore
	})

	board := &models.Leaderboard{Entries: entries}
	for i := range entries {
		entries[i].Rank = i + 1
		if entries[i].UserID == userID {
			board.Position = i + 1
		}
	}

	return board, nil
}
