package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"friends-challenge-backend/internal/middleware"
	"friends-challenge-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// VoteHandler handles voting-related HTTP requests
type VoteHandler struct {
	voteService *services.VoteService
}

// NewVoteHandler creates a new vote handler
func NewVoteHandler(voteService *services.VoteService) *VoteHandler {
	return &VoteHandler{
		voteService: voteService,
	}
}

// Peers handles GET /api/v1/challenges/{challenge_id}/peers
func (h *VoteHandler) Peers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	challengeID := chi.URLParam(r, "challenge_id")

	peers, err := h.voteService.Peers(ctx, challengeID, userID)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("challenge_id", challengeID).
			Msg("Failed to list peers")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"peers": peers})
}

// VoteRequest represents the vote request body
type VoteRequest struct {
	Rating float64 `json:"rating"`
}

// Vote handles POST /api/v1/challenges/{challenge_id}/participations/{user_id}/vote
func (h *VoteHandler) Vote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	voterID := middleware.GetUserID(ctx)
	challengeID := chi.URLParam(r, "challenge_id")
	participantID := chi.URLParam(r, "user_id")

	var req VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := h.voteService.Vote(ctx, challengeID, participantID, voterID, req.Rating)
	if err != nil {
		log.Error().
			Err(err).
			Str("voter_id", voterID).
			Str("participant_id", participantID).
			Str("challenge_id", challengeID).
			Msg("Failed to record vote")

		statusCode := statusFromError(err)
		if errors.Is(err, services.ErrInvalidRating) {
			statusCode = http.StatusBadRequest
		} else if errors.Is(err, services.ErrNotAPeer) {
			statusCode = http.StatusForbidden
		}
		respondError(w, err.Error(), statusCode)
		return
	}

	log.Info().
		Str("voter_id", voterID).
		Str("participant_id", participantID).
		Str("challenge_id", challengeID).
		Float64("rating", req.Rating).
		Msg("Vote recorded")

	w.WriteHeader(http.StatusNoContent)
}

// Complete handles POST /api/v1/challenges/{challenge_id}/votes/complete
func (h *VoteHandler) Complete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	challengeID := chi.URLParam(r, "challenge_id")

	if err := h.voteService.MarkComplete(ctx, challengeID, userID); err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("challenge_id", challengeID).
			Msg("Failed to complete voting")

		statusCode := statusFromError(err)
		if errors.Is(err, services.ErrVotingIncomplete) {
			statusCode = http.StatusConflict
		}
		respondError(w, err.Error(), statusCode)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("challenge_id", challengeID).
		Msg("Voting completed")

	w.WriteHeader(http.StatusNoContent)
}
