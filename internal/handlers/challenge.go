package handlers

import (
	"errors"
	"io"
	"net/http"

	"friends-challenge-backend/internal/middleware"
	"friends-challenge-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// images are phone camera JPEGs, cap uploads at 10 MB
const maxImageSize = 10 << 20

// ChallengeHandler handles challenge-related HTTP requests
type ChallengeHandler struct {
	challengeService *services.ChallengeService
}

// NewChallengeHandler creates a new challenge handler
func NewChallengeHandler(challengeService *services.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
	}
}

// GetWeekly handles GET /api/v1/challenges/weekly
func (h *ChallengeHandler) GetWeekly(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	status, err := h.challengeService.GetWeekly(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get weekly challenge")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	respondJSON(w, http.StatusOK, status)
}

// Submit handles POST /api/v1/challenges/{challenge_id}/participation
func (h *ChallengeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	challengeID := chi.URLParam(r, "challenge_id")

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		respondError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, "image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		respondError(w, "Failed to read image", http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	participation, err := h.challengeService.Submit(ctx, challengeID, userID, data, contentType)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("challenge_id", challengeID).
			Msg("Failed to submit participation")

		statusCode := statusFromError(err)
		if errors.Is(err, services.ErrChallengeClosed) || errors.Is(err, services.ErrAlreadyParticipating) {
			statusCode = http.StatusConflict
		}
		respondError(w, err.Error(), statusCode)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("challenge_id", challengeID).
		Str("image_url", participation.ImageURL).
		Msg("Participation submitted")

	respondJSON(w, http.StatusOK, participation)
}

// Remove handles DELETE /api/v1/challenges/{challenge_id}/participation
func (h *ChallengeHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	challengeID := chi.URLParam(r, "challenge_id")

	if err := h.challengeService.Remove(ctx, challengeID, userID); err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("challenge_id", challengeID).
			Msg("Failed to remove participation")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("challenge_id", challengeID).
		Msg("Participation removed")

	w.WriteHeader(http.StatusNoContent)
}

// History handles GET /api/v1/me/history
func (h *ChallengeHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	entries, err := h.challengeService.History(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get history")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"history": entries})
}
