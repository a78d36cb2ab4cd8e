package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// RotationService drives the weekly cycle: opening the voting window and
// closing the period with scoring and challenge rotation.
type RotationService struct {
	challenges ChallengeStore
	votes      VoteStore
	users      UserStore
	session    *SessionService
	notifier   *Notifier
}

// NewRotationService creates a new rotation service
func NewRotationService(challenges ChallengeStore, votes VoteStore, users UserStore, session *SessionService, notifier *Notifier) *RotationService {
	return &RotationService{
		challenges: challenges,
		votes:      votes,
		users:      users,
		session:    session,
		notifier:   notifier,
	}
}

// OpenVoting opens the voting window and announces it
func (s *RotationService) OpenVoting(ctx context.Context) error {
	if err := s.session.SetVotingOpen(ctx, true); err != nil {
		return fmt.Errorf("failed to open voting window: %w", err)
	}

	if s.notifier != nil {
		s.notifier.VotingOpened()
	}

	log.Info().Msg("Voting window opened")
	return nil
}

// ClosePeriod finishes the running period: each participant's week score
// becomes the average rating they received and is added to their total,
// everyone's voting flag is reset, the voting window closes, and the next
// queued challenge becomes the weekly one.
func (s *RotationService) ClosePeriod(ctx context.Context) error {
	challenge, err := s.challenges.GetWeekly(ctx)
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to get weekly challenge: %w", err)
	}

	if challenge != nil {
		scores, err := s.votes.AveragesByChallenge(ctx, challenge.ID)
		if err != nil {
			return fmt.Errorf("failed to aggregate scores: %w", err)
		}
		if err := s.users.ApplyWeekScores(ctx, scores); err != nil {
			return fmt.Errorf("failed to apply scores: %w", err)
		}
		log.Info().
			Str("challenge_id", challenge.ID).
			Int("scored_participants", len(scores)).
			Msg("Period scored")
	}

	if err := s.session.SetVotingOpen(ctx, false); err != nil {
		return fmt.Errorf("failed to close voting window: %w", err)
	}

	next, err := s.challenges.Rotate(ctx)
	if err != nil {
		if IsNotFound(err) {
			log.Warn().Msg("No queued challenge to promote")
			return nil
		}
		return fmt.Errorf("failed to rotate challenge: %w", err)
	}

	log.Info().Str("challenge_id", next.ID).Str("title", next.Title).Msg("New weekly challenge")
	return nil
}
