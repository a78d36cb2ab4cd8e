package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"friends-challenge-backend/internal/models"
	"friends-challenge-backend/internal/repository"
)

var (
	// ErrSelfRequest is returned when a user befriends themselves
	ErrSelfRequest = errors.New("cannot send a friend request to yourself")
	// ErrNotAddressee is returned when answering a request sent to someone else
	ErrNotAddressee = errors.New("no incoming request from this user")
)

// FriendNotifier delivers friend lifecycle events to the affected user
type FriendNotifier interface {
	FriendRequested(ctx context.Context, toUserID, fromUsername string)
	FriendAccepted(ctx context.Context, toUserID, byUsername string)
}

// SearchResult is one friend-search hit with its relation context
type SearchResult struct {
	UserID           string `json:"user_id"`
	Username         string `json:"username"`
	AlreadyRequested bool   `json:"already_requested"`
}

// FriendService handles the friend relationship lifecycle
type FriendService struct {
	friends  FriendStore
	users    UserStore
	notifier FriendNotifier
}

// NewFriendService creates a new friend service
func NewFriendService(friends FriendStore, users UserStore, notifier FriendNotifier) *FriendService {
	return &FriendService{
		friends:  friends,
		users:    users,
		notifier: notifier,
	}
}

// ListFriends retrieves all relations on the user's list
func (s *FriendService) ListFriends(ctx context.Context, userID string) ([]*models.Friend, error) {
	return s.friends.ListByUser(ctx, userID)
}

// ListRequests retrieves incoming requests awaiting the user's answer
func (s *FriendService) ListRequests(ctx context.Context, userID string) ([]*models.Friend, error) {
	relations, err := s.friends.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var requests []*models.Friend
	for _, rel := range relations {
		if rel.Status == models.FriendRequested {
			requests = append(requests, rel)
		}
	}
	return requests, nil
}

// SendRequest creates the mirrored relation pair: PENDING on the sender's
// list, REQUESTED on the recipient's. Both rows are written in one
// transaction, so a one-sided request cannot survive a failure.
func (s *FriendService) SendRequest(ctx context.Context, fromUserID, toUserID string) error {
	if fromUserID == toUserID {
		return ErrSelfRequest
	}

	from, err := s.users.GetByID(ctx, fromUserID)
	if err != nil {
		return fmt.Errorf("failed to get sender: %w", err)
	}
	if _, err := s.users.GetByID(ctx, toUserID); err != nil {
		return fmt.Errorf("failed to get recipient: %w", err)
	}

	now := time.Now()
	side := &models.Friend{
		UserID:      fromUserID,
		FriendID:    toUserID,
		Status:      models.FriendPending,
		RequestedBy: fromUserID,
		CreatedAt:   now,
	}
	mirror := &models.Friend{
		UserID:      toUserID,
		FriendID:    fromUserID,
		Status:      models.FriendRequested,
		RequestedBy: fromUserID,
		CreatedAt:   now,
	}

	if err := s.friends.UpsertPair(ctx, side, mirror); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.FriendRequested(ctx, toUserID, from.Username)
	}
	return nil
}

// Accept flips both sides of a pending request to ACCEPTED
func (s *FriendService) Accept(ctx context.Context, userID, friendID string) error {
	if err := s.answerRequest(ctx, userID, friendID, models.FriendAccepted); err != nil {
		return err
	}

	if s.notifier != nil {
		if user, err := s.users.GetByID(ctx, userID); err == nil {
			s.notifier.FriendAccepted(ctx, friendID, user.Username)
		}
	}
	return nil
}

// Reject flips both sides of a pending request to REJECTED
func (s *FriendService) Reject(ctx context.Context, userID, friendID string) error {
	return s.answerRequest(ctx, userID, friendID, models.FriendRejected)
}

func (s *FriendService) answerRequest(ctx context.Context, userID, friendID string, status models.FriendStatus) error {
	rel, err := s.friends.Get(ctx, userID, friendID)
	if err != nil {
		return err
	}
	// only the addressee of an open request may answer it
	if rel.Status != models.FriendRequested || rel.RequestedBy != friendID {
		return ErrNotAddressee
	}

	return s.friends.UpdatePairStatus(ctx, userID, friendID, status)
}

// Search finds users by username prefix. The searcher is excluded, accepted
// friends are filtered out, and users with an open request from the searcher
// are marked already requested.
func (s *FriendService) Search(ctx context.Context, userID, query string) ([]SearchResult, error) {
	users, err := s.users.SearchByUsername(ctx, query, 20)
	if err != nil {
		return nil, err
	}

	relations, err := s.friends.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	byFriend := make(map[string]*models.Friend, len(relations))
	for _, rel := range relations {
		byFriend[rel.FriendID] = rel
	}

	results := make([]SearchResult, 0, len(users))
	for _, user := range users {
		if user.ID == userID {
			continue
		}
		rel, ok := byFriend[user.ID]
		if ok && rel.Status == models.FriendAccepted {
			continue
		}
		results = append(results, SearchResult{
			UserID:           user.ID,
			Username:         user.Username,
			AlreadyRequested: ok && rel.Status == models.FriendPending,
		})
	}
	return results, nil
}

// IsNotFound reports whether an error means a missing record
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
