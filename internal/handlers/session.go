package handlers

import (
	"net/http"

	"friends-challenge-backend/internal/middleware"
	"friends-challenge-backend/internal/models"
	"friends-challenge-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// SessionHandler answers the screen-gating query for clients
type SessionHandler struct {
	sessionService *services.SessionService
	authService    *services.AuthService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *services.SessionService, authService *services.AuthService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		authService:    authService,
	}
}

// SessionResponse tells the client which screen to show
type SessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	VotingOpen    bool          `json:"voting_open"`
	Screen        models.Screen `json:"screen"`
}

// Get handles GET /api/v1/session. The bearer token is optional: an
// unauthenticated caller is routed to the login screen.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, authenticated := middleware.BearerUserID(r, h.authService)

	votingOpen, err := h.sessionService.VotingOpen(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read voting window")
		respondError(w, "Failed to resolve session", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, SessionResponse{
		Authenticated: authenticated,
		VotingOpen:    votingOpen,
		Screen:        services.ResolveScreen(authenticated, votingOpen),
	})
}
