package repository

import (
	"context"
	"fmt"

	"friends-challenge-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// VoteRepository handles database operations for votes
type VoteRepository struct {
	db *pgxpool.Pool
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *pgxpool.Pool) *VoteRepository {
	return &VoteRepository{db: db}
}

// Upsert writes a vote keyed by voter id. Re-voting overwrites the previous
// rating, last write wins.
func (r *VoteRepository) Upsert(ctx context.Context, vote *models.Vote) error {
	query := `
		INSERT INTO votes (challenge_id, participant_id, voter_id, rating, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (challenge_id, participant_id, voter_id)
		DO UPDATE SET rating = EXCLUDED.rating, updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.Exec(ctx, query,
		vote.ChallengeID, vote.ParticipantID, vote.VoterID, vote.Rating, vote.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert vote: %w", err)
	}
	return nil
}

// CountByVoter counts how many of the given participants the voter has rated
func (r *VoteRepository) CountByVoter(ctx context.Context, challengeID, voterID string, participantIDs []string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM votes
		WHERE challenge_id = $1 AND voter_id = $2 AND participant_id = ANY($3)
	`
	var count int
	err := r.db.QueryRow(ctx, query, challengeID, voterID, participantIDs).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return count, nil
}

// AveragesByChallenge returns each participant's average rating for a challenge
func (r *VoteRepository) AveragesByChallenge(ctx context.Context, challengeID string) (map[string]float64, error) {
	query := `
		SELECT participant_id, AVG(rating)
		FROM votes
		WHERE challenge_id = $1
		GROUP BY participant_id
	`
	rows, err := r.db.Query(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate votes: %w", err)
	}
	defer rows.Close()

	averages := make(map[string]float64)
	for rows.Next() {
		var participantID string
		var avg float64
		if err := rows.Scan(&participantID, &avg); err != nil {
			return nil, fmt.Errorf("failed to scan vote average: %w", err)
		}
		averages[participantID] = avg
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vote averages: %w", err)
	}

	return averages, nil
}
