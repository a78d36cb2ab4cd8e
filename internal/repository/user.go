package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"friends-challenge-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, total_score, week_score, voting_done, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.TotalScore, user.WeekScore, user.VotingDone, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, total_score, week_score, voting_done, push_token, created_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, total_score, week_score, voting_done, push_token, created_at
		FROM users
		WHERE email = $1
	`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.TotalScore, &user.WeekScore, &user.VotingDone, &user.PushToken, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE wildcards so a search term matches literally
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// SearchByUsername returns users whose username starts with the given prefix
func (r *UserRepository) SearchByUsername(ctx context.Context, prefix string, limit int) ([]*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, total_score, week_score, voting_done, push_token, created_at
		FROM users
		WHERE username LIKE $1 || '%'
		ORDER BY username
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, escapeLike(prefix), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.PasswordHash,
			&user.TotalScore, &user.WeekScore, &user.VotingDone, &user.PushToken, &user.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// UpdatePushToken updates the push token for a user
func (r *UserRepository) UpdatePushToken(ctx context.Context, userID string, pushToken *string) error {
	query := `UPDATE users SET push_token = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, query, pushToken, userID)
	if err != nil {
		return fmt.Errorf("failed to update push token: %w", err)
	}
	return nil
}

// SetVotingDone sets the voting-complete flag for a user
func (r *UserRepository) SetVotingDone(ctx context.Context, userID string, done bool) error {
	query := `UPDATE users SET voting_done = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, query, done, userID)
	if err != nil {
		return fmt.Errorf("failed to update voting flag: %w", err)
	}
	return nil
}

// ApplyWeekScores writes the finished period's scores: each scored user gets
// week_score set to their average rating and added to total_score, everyone
// else drops back to zero. Voting flags are cleared for the next period.
func (r *UserRepository) ApplyWeekScores(ctx context.Context, scores map[string]float64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin score transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE users SET week_score = 0, voting_done = FALSE`); err != nil {
		return fmt.Errorf("failed to reset week scores: %w", err)
	}

	query := `UPDATE users SET week_score = $1, total_score = total_score + $1 WHERE id = $2`
	for userID, score := range scores {
		if _, err := tx.Exec(ctx, query, score, userID); err != nil {
			return fmt.Errorf("failed to apply week score: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit score transaction: %w", err)
	}
	return nil
}
