package services

import (
	"context"
	"sync"
	"time"

	"friends-challenge-backend/internal/models"
)

// SessionService resolves which screen a client should show and caches the
// voting-window flag. The cache replaces the old fixed-interval client
// polling: reads within the TTL reuse the last answer, and every write goes
// through SetVotingOpen which invalidates the cache immediately.
type SessionService struct {
	settings SettingsStore
	ttl      time.Duration
	now      func() time.Time

	mu        sync.Mutex
	cached    bool
	fetchedAt time.Time
}

// NewSessionService creates a new session service
func NewSessionService(settings SettingsStore, ttl time.Duration) *SessionService {
	return &SessionService{
		settings: settings,
		ttl:      ttl,
		now:      time.Now,
	}
}

// VotingOpen reports whether the voting window is open, reusing the cached
// answer within the TTL
func (s *SessionService) VotingOpen(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if !s.fetchedAt.IsZero() && s.now().Sub(s.fetchedAt) < s.ttl {
		open := s.cached
		s.mu.Unlock()
		return open, nil
	}
	s.mu.Unlock()

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	s.cached = settings.VotingOpen
	s.fetchedAt = s.now()
	s.mu.Unlock()

	return settings.VotingOpen, nil
}

// SetVotingOpen toggles the voting window and drops the cached flag
func (s *SessionService) SetVotingOpen(ctx context.Context, open bool) error {
	if err := s.settings.SetVotingOpen(ctx, open); err != nil {
		return err
	}
	s.Invalidate()
	return nil
}

// Invalidate drops the cached voting flag so the next read hits the store
func (s *SessionService) Invalidate() {
	s.mu.Lock()
	s.fetchedAt = time.Time{}
	s.mu.Unlock()
}

// ResolveScreen maps session state to the screen a client should show:
// unauthenticated goes to login, an open voting window takes precedence over
// home for authenticated sessions.
func ResolveScreen(authenticated, votingOpen bool) models.Screen {
	if !authenticated {
		return models.ScreenLogin
	}
	if votingOpen {
		return models.ScreenVote
	}
	return models.ScreenHome
}
