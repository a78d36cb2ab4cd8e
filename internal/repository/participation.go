package repository

import (
	"context"
	"errors"
	"fmt"

	"friends-challenge-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ParticipationRepository handles database operations for participations.
// One row per (challenge, user) serves both the voting view and the user's
// profile history.
type ParticipationRepository struct {
	db *pgxpool.Pool
}

// NewParticipationRepository creates a new participation repository
func NewParticipationRepository(db *pgxpool.Pool) *ParticipationRepository {
	return &ParticipationRepository{db: db}
}

// Create creates a participation record
func (r *ParticipationRepository) Create(ctx context.Context, p *models.Participation) error {
	query := `
		INSERT INTO participations (challenge_id, user_id, image_url, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, p.ChallengeID, p.UserID, p.ImageURL, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create participation: %w", err)
	}
	return nil
}

// Get retrieves a user's participation in a challenge
func (r *ParticipationRepository) Get(ctx context.Context, challengeID, userID string) (*models.Participation, error) {
	query := `
		SELECT p.challenge_id, p.user_id, u.username, p.image_url, p.created_at
		FROM participations p
		JOIN users u ON u.id = p.user_id
		WHERE p.challenge_id = $1 AND p.user_id = $2
	`
	var p models.Participation
	err := r.db.QueryRow(ctx, query, challengeID, userID).Scan(
		&p.ChallengeID, &p.UserID, &p.Username, &p.ImageURL, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("participation %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get participation: %w", err)
	}
	return &p, nil
}

// Delete removes a user's participation. Votes on it cascade away.
func (r *ParticipationRepository) Delete(ctx context.Context, challengeID, userID string) error {
	query := `DELETE FROM participations WHERE challenge_id = $1 AND user_id = $2`
	result, err := r.db.Exec(ctx, query, challengeID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete participation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("participation %w", ErrNotFound)
	}
	return nil
}

// ListByUsers retrieves the participations of the given users in a challenge
func (r *ParticipationRepository) ListByUsers(ctx context.Context, challengeID string, userIDs []string) ([]*models.Participation, error) {
	query := `
		SELECT p.challenge_id, p.user_id, u.username, p.image_url, p.created_at
		FROM participations p
		JOIN users u ON u.id = p.user_id
		WHERE p.challenge_id = $1 AND p.user_id = ANY($2)
		ORDER BY p.created_at
	`
	rows, err := r.db.Query(ctx, query, challengeID, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}
	defer rows.Close()

	var participations []*models.Participation
	for rows.Next() {
		var p models.Participation
		err := rows.Scan(&p.ChallengeID, &p.UserID, &p.Username, &p.ImageURL, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participation: %w", err)
		}
		participations = append(participations, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participations: %w", err)
	}

	return participations, nil
}

// HistoryByUser retrieves a user's past participations with challenge titles
func (r *ParticipationRepository) HistoryByUser(ctx context.Context, userID string) ([]*models.HistoryEntry, error) {
	query := `
		SELECT p.challenge_id, c.title, p.image_url, p.created_at
		FROM participations p
		JOIN challenges c ON c.id = p.challenge_id
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []*models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		err := rows.Scan(&e.ChallengeID, &e.ChallengeTitle, &e.ImageURL, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history: %w", err)
	}

	return entries, nil
}
