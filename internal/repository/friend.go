package repository

import (
	"context"
	"errors"
	"fmt"

	"friends-challenge-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FriendRepository handles database operations for friend relations.
// Relations are stored as two directional rows, one per side, and every
// mutation touches both rows inside a single transaction so a one-sided
// relation can never be observed.
type FriendRepository struct {
	db *pgxpool.Pool
}

// NewFriendRepository creates a new friend repository
func NewFriendRepository(db *pgxpool.Pool) *FriendRepository {
	return &FriendRepository{db: db}
}

// UpsertPair writes both directional rows of a relation atomically.
// Re-sending a request overwrites the existing rows instead of duplicating.
func (r *FriendRepository) UpsertPair(ctx context.Context, side, mirror *models.Friend) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin friend transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO friends (user_id, friend_id, status, requested_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, friend_id)
		DO UPDATE SET status = EXCLUDED.status, requested_by = EXCLUDED.requested_by, created_at = EXCLUDED.created_at
	`
	for _, rel := range []*models.Friend{side, mirror} {
		if _, err := tx.Exec(ctx, query, rel.UserID, rel.FriendID, rel.Status, rel.RequestedBy, rel.CreatedAt); err != nil {
			return fmt.Errorf("failed to write friend relation: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit friend transaction: %w", err)
	}
	return nil
}

// UpdatePairStatus flips both directional rows of a relation to the given
// status and refreshes their timestamps, in one transaction.
func (r *FriendRepository) UpdatePairStatus(ctx context.Context, userID, friendID string, status models.FriendStatus) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin friend transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE friends SET status = $1, created_at = now()
		WHERE (user_id = $2 AND friend_id = $3) OR (user_id = $3 AND friend_id = $2)
	`
	result, err := tx.Exec(ctx, query, status, userID, friendID)
	if err != nil {
		return fmt.Errorf("failed to update friend relation: %w", err)
	}
	if result.RowsAffected() != 2 {
		return fmt.Errorf("friend relation %w", ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit friend transaction: %w", err)
	}
	return nil
}

// Get retrieves one directional relation row
func (r *FriendRepository) Get(ctx context.Context, userID, friendID string) (*models.Friend, error) {
	query := `
		SELECT f.user_id, f.friend_id, u.username, f.status, f.requested_by, u.total_score, u.week_score, f.created_at
		FROM friends f
		JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = $1 AND f.friend_id = $2
	`
	var rel models.Friend
	err := r.db.QueryRow(ctx, query, userID, friendID).Scan(
		&rel.UserID, &rel.FriendID, &rel.FriendName, &rel.Status,
		&rel.RequestedBy, &rel.TotalScore, &rel.WeekScore, &rel.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("friend relation %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get friend relation: %w", err)
	}
	return &rel, nil
}

// ListByUser retrieves all relation rows on a user's list. Counterpart names
// and scores come from the users table rather than a stored snapshot.
func (r *FriendRepository) ListByUser(ctx context.Context, userID string) ([]*models.Friend, error) {
	query := `
		SELECT f.user_id, f.friend_id, u.username, f.status, f.requested_by, u.total_score, u.week_score, f.created_at
		FROM friends f
		JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	var friends []*models.Friend
	for rows.Next() {
		var rel models.Friend
		err := rows.Scan(
			&rel.UserID, &rel.FriendID, &rel.FriendName, &rel.Status,
			&rel.RequestedBy, &rel.TotalScore, &rel.WeekScore, &rel.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan friend relation: %w", err)
		}
		friends = append(friends, &rel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating friends: %w", err)
	}

	return friends, nil
}

// ListAcceptedIDs retrieves the ids of a user's accepted friends
func (r *FriendRepository) ListAcceptedIDs(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT friend_id FROM friends WHERE user_id = $1 AND status = 'ACCEPTED'`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accepted friends: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan friend id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating friend ids: %w", err)
	}

	return ids, nil
}
