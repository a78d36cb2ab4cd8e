package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"friends-challenge-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	// ErrChallengeClosed is returned when submitting to an inactive challenge
	ErrChallengeClosed = errors.New("challenge is not active")
	// ErrAlreadyParticipating is returned on a duplicate submission
	ErrAlreadyParticipating = errors.New("already participating in this challenge")
)

// ChallengeService handles the weekly challenge and its participations
type ChallengeService struct {
	challenges     ChallengeStore
	participations ParticipationStore
	uploader       Uploader
}

// NewChallengeService creates a new challenge service
func NewChallengeService(challenges ChallengeStore, participations ParticipationStore, uploader Uploader) *ChallengeService {
	return &ChallengeService{
		challenges:     challenges,
		participations: participations,
		uploader:       uploader,
	}
}

// WeeklyStatus is the active challenge together with the caller's participation
type WeeklyStatus struct {
	Challenge     *models.Challenge `json:"challenge"`
	Participating bool              `json:"participating"`
	ImageURL      string            `json:"image_url,omitempty"`
}

// GetWeekly retrieves the active challenge and whether the user participates
func (s *ChallengeService) GetWeekly(ctx context.Context, userID string) (*WeeklyStatus, error) {
	challenge, err := s.challenges.GetWeekly(ctx)
	if err != nil {
		return nil, err
	}

	status := &WeeklyStatus{Challenge: challenge}
	p, err := s.participations.Get(ctx, challenge.ID, userID)
	if err == nil {
		status.Participating = true
		status.ImageURL = p.ImageURL
	} else if !IsNotFound(err) {
		return nil, err
	}
	return status, nil
}

// Submit uploads the image and records the participation. The single
// participation row serves both the voting view and the user's history, so
// there is no second write to fall out of sync. If the insert fails after the
// upload, the uploaded object is removed again.
func (s *ChallengeService) Submit(ctx context.Context, challengeID, userID string, image []byte, contentType string) (*models.Participation, error) {
	challenge, err := s.challenges.GetByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if challenge.Status != models.ChallengeWeekly {
		return nil, ErrChallengeClosed
	}

	if _, err := s.participations.Get(ctx, challengeID, userID); err == nil {
		return nil, ErrAlreadyParticipating
	} else if !IsNotFound(err) {
		return nil, err
	}

	key := fmt.Sprintf("images/%s.jpg", uuid.New().String())
	imageURL, err := s.uploader.Upload(ctx, key, image, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	participation := &models.Participation{
		ChallengeID: challengeID,
		UserID:      userID,
		ImageURL:    imageURL,
		CreatedAt:   time.Now(),
	}
	if err := s.participations.Create(ctx, participation); err != nil {
		if delErr := s.uploader.Delete(ctx, imageURL); delErr != nil {
			log.Error().Err(delErr).Str("image_url", imageURL).Msg("Failed to remove orphaned image")
		}
		return nil, err
	}

	return participation, nil
}

// Remove deletes the user's participation and its image. Votes on it cascade
// away with the row. A failed object deletion leaves only an unreferenced
// blob, never a dangling record.
func (s *ChallengeService) Remove(ctx context.Context, challengeID, userID string) error {
	participation, err := s.participations.Get(ctx, challengeID, userID)
	if err != nil {
		return err
	}

	if err := s.participations.Delete(ctx, challengeID, userID); err != nil {
		return err
	}

	if err := s.uploader.Delete(ctx, participation.ImageURL); err != nil {
		log.Error().Err(err).Str("image_url", participation.ImageURL).Msg("Failed to delete image object")
	}
	return nil
}

// History retrieves the user's past participations for the profile screen
func (s *ChallengeService) History(ctx context.Context, userID string) ([]*models.HistoryEntry, error) {
	return s.participations.HistoryByUser(ctx, userID)
}
