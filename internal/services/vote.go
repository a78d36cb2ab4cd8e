package services

import (
	"context"
	"errors"
	"time"

	"friends-challenge-backend/internal/models"
)

var (
	// ErrInvalidRating is returned for ratings outside 0..10
	ErrInvalidRating = errors.New("rating must be between 0 and 10")
	// ErrNotAPeer is returned when voting on someone who is not an accepted friend
	ErrNotAPeer = errors.New("participant is not an accepted friend")
	// ErrVotingIncomplete is returned when completing with unrated peers left
	ErrVotingIncomplete = errors.New("not all peer submissions have been rated")
)

// VoteService handles rating of peers' submissions
type VoteService struct {
	votes          VoteStore
	friends        FriendStore
	participations ParticipationStore
	users          UserStore
}

// NewVoteService creates a new vote service
func NewVoteService(votes VoteStore, friends FriendStore, participations ParticipationStore, users UserStore) *VoteService {
	return &VoteService{
		votes:          votes,
		friends:        friends,
		participations: participations,
		users:          users,
	}
}

// Peers retrieves the submissions the user gets to rate: the intersection of
// their accepted friends and the challenge's participants. The user's own
// submission is excluded by construction.
func (s *VoteService) Peers(ctx context.Context, challengeID, userID string) ([]*models.Participation, error) {
	friendIDs, err := s.friends.ListAcceptedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(friendIDs) == 0 {
		return nil, nil
	}
	return s.participations.ListByUsers(ctx, challengeID, friendIDs)
}

// Vote upserts the voter's rating of a peer submission. Voting again
// overwrites the previous rating.
func (s *VoteService) Vote(ctx context.Context, challengeID, participantID, voterID string, rating float64) error {
	if rating < 0 || rating > 10 {
		return ErrInvalidRating
	}

	rel, err := s.friends.Get(ctx, voterID, participantID)
	if err != nil {
		if IsNotFound(err) {
			return ErrNotAPeer
		}
		return err
	}
	if rel.Status != models.FriendAccepted {
		return ErrNotAPeer
	}

	if _, err := s.participations.Get(ctx, challengeID, participantID); err != nil {
		return err
	}

	return s.votes.Upsert(ctx, &models.Vote{
		ChallengeID:   challengeID,
		ParticipantID: participantID,
		VoterID:       voterID,
		Rating:        rating,
		UpdatedAt:     time.Now(),
	})
}

// MarkComplete sets the user's voting-done flag, but only after verifying
// against the vote counts that every peer submission was actually rated.
func (s *VoteService) MarkComplete(ctx context.Context, challengeID, userID string) error {
	peers, err := s.Peers(ctx, challengeID, userID)
	if err != nil {
		return err
	}

	if len(peers) > 0 {
		participantIDs := make([]string, 0, len(peers))
		for _, p := range peers {
			participantIDs = append(participantIDs, p.UserID)
		}

		voted, err := s.votes.CountByVoter(ctx, challengeID, userID, participantIDs)
		if err != nil {
			return err
		}
		if voted < len(participantIDs) {
			return ErrVotingIncomplete
		}
	}

	return s.users.SetVotingDone(ctx, userID, true)
}
