package repository

import (
	"context"
	"errors"
	"fmt"

	"friends-challenge-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChallengeRepository handles database operations for challenges
type ChallengeRepository struct {
	db *pgxpool.Pool
}

// NewChallengeRepository creates a new challenge repository
func NewChallengeRepository(db *pgxpool.Pool) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// GetWeekly retrieves the active challenge. A partial unique index keeps the
// table to at most one WEEKLY row; the ordering makes the read deterministic
// regardless.
func (r *ChallengeRepository) GetWeekly(ctx context.Context) (*models.Challenge, error) {
	query := `
		SELECT id, title, status, created_at
		FROM challenges
		WHERE status = 'WEEKLY'
		ORDER BY created_at
		LIMIT 1
	`
	var challenge models.Challenge
	err := r.db.QueryRow(ctx, query).Scan(
		&challenge.ID, &challenge.Title, &challenge.Status, &challenge.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("weekly challenge %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get weekly challenge: %w", err)
	}
	return &challenge, nil
}

// GetByID retrieves a challenge by ID
func (r *ChallengeRepository) GetByID(ctx context.Context, id string) (*models.Challenge, error) {
	query := `
		SELECT id, title, status, created_at
		FROM challenges
		WHERE id = $1
	`
	var challenge models.Challenge
	err := r.db.QueryRow(ctx, query, id).Scan(
		&challenge.ID, &challenge.Title, &challenge.Status, &challenge.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("challenge %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	return &challenge, nil
}

// Rotate closes the active challenge and promotes the oldest queued one,
// atomically. Returns the promoted challenge, or ErrNotFound wrapped when the
// queue is empty.
func (r *ChallengeRepository) Rotate(ctx context.Context) (*models.Challenge, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin rotation transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE challenges SET status = 'DID' WHERE status = 'WEEKLY'`); err != nil {
		return nil, fmt.Errorf("failed to close weekly challenge: %w", err)
	}

	query := `
		UPDATE challenges SET status = 'WEEKLY'
		WHERE id = (
			SELECT id FROM challenges WHERE status = 'NO' ORDER BY created_at LIMIT 1
		)
		RETURNING id, title, status, created_at
	`
	var next models.Challenge
	err = tx.QueryRow(ctx, query).Scan(&next.ID, &next.Title, &next.Status, &next.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// nothing queued: commit the close and report no successor
			if err := tx.Commit(ctx); err != nil {
				return nil, fmt.Errorf("failed to commit rotation transaction: %w", err)
			}
			return nil, fmt.Errorf("queued challenge %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to promote challenge: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit rotation transaction: %w", err)
	}
	return &next, nil
}
