package handlers

import (
	"context"
	"errors"
	"net/http"

	"friends-challenge-backend/internal/middleware"
	"friends-challenge-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// FriendHandler handles friend-related HTTP requests
type FriendHandler struct {
	friendService *services.FriendService
}

// NewFriendHandler creates a new friend handler
func NewFriendHandler(friendService *services.FriendService) *FriendHandler {
	return &FriendHandler{
		friendService: friendService,
	}
}

// List handles GET /api/v1/friends
func (h *FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	friends, err := h.friendService.ListFriends(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list friends")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"friends": friends})
}

// ListRequests handles GET /api/v1/friends/requests
func (h *FriendHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	requests, err := h.friendService.ListRequests(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list friend requests")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"requests": requests})
}

// Search handles GET /api/v1/friends/search?q=
func (h *FriendHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	query := r.URL.Query().Get("q")
	if len(query) < 3 {
		respondError(w, "query must be at least 3 characters", http.StatusBadRequest)
		return
	}

	results, err := h.friendService.Search(ctx, userID, query)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("query", query).Msg("Failed to search users")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// SendRequest handles POST /api/v1/friends/{user_id}/request
func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "request", h.friendService.SendRequest)
}

// Accept handles POST /api/v1/friends/{user_id}/accept
func (h *FriendHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "accept", h.friendService.Accept)
}

// Reject handles POST /api/v1/friends/{user_id}/reject
func (h *FriendHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "reject", h.friendService.Reject)
}

func (h *FriendHandler) mutate(w http.ResponseWriter, r *http.Request, action string, op func(ctx context.Context, userID, friendID string) error) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	friendID := chi.URLParam(r, "user_id")

	if friendID == "" {
		respondError(w, "user_id is required", http.StatusBadRequest)
		return
	}

	if err := op(ctx, userID, friendID); err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("friend_id", friendID).
			Str("action", action).
			Msg("Friend operation failed")

		statusCode := statusFromError(err)
		if errors.Is(err, services.ErrSelfRequest) || errors.Is(err, services.ErrNotAddressee) {
			statusCode = http.StatusConflict
		}
		respondError(w, err.Error(), statusCode)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("friend_id", friendID).
		Str("action", action).
		Msg("Friend operation completed")

	w.WriteHeader(http.StatusNoContent)
}
