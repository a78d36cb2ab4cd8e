package repository

import (
	"context"
	"fmt"

	"friends-challenge-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingsRepository handles the single global settings row
type SettingsRepository struct {
	db *pgxpool.Pool
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get retrieves the global settings
func (r *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	query := `SELECT voting_open, updated_at FROM app_settings WHERE id`
	var settings models.Settings
	err := r.db.QueryRow(ctx, query).Scan(&settings.VotingOpen, &settings.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

// SetVotingOpen toggles the voting window flag
func (r *SettingsRepository) SetVotingOpen(ctx context.Context, open bool) error {
	query := `UPDATE app_settings SET voting_open = $1, updated_at = now() WHERE id`
	_, err := r.db.Exec(ctx, query, open)
	if err != nil {
		return fmt.Errorf("failed to update voting window: %w", err)
	}
	return nil
}
