package services

import (
	"context"
	"fmt"
	"strings"

	"friends-challenge-backend/internal/models"
	"friends-challenge-backend/internal/repository"
)

// In-memory store fakes shared by the service tests.

type fakeUserStore struct {
	users       map[string]*models.User
	votingDone  map[string]bool
	weekScores  map[string]float64
	scoreResets int
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{
		users:      make(map[string]*models.User),
		votingDone: make(map[string]bool),
		weekScores: make(map[string]float64),
	}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %w", repository.ErrNotFound)
	}
	return user, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %w", repository.ErrNotFound)
}

func (s *fakeUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) SearchByUsername(_ context.Context, prefix string, _ int) ([]*models.User, error) {
	var out []*models.User
	for _, u := range s.users {
		if strings.HasPrefix(u.Username, prefix) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *fakeUserStore) UpdatePushToken(_ context.Context, userID string, pushToken *string) error {
	user, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("user %w", repository.ErrNotFound)
	}
	user.PushToken = pushToken
	return nil
}

func (s *fakeUserStore) SetVotingDone(_ context.Context, userID string, done bool) error {
	s.votingDone[userID] = done
	return nil
}

func (s *fakeUserStore) ApplyWeekScores(_ context.Context, scores map[string]float64) error {
	s.scoreResets++
	s.weekScores = scores
	for id := range s.votingDone {
		s.votingDone[id] = false
	}
	return nil
}

type fakeFriendStore struct {
	users     *fakeUserStore
	relations map[string]*models.Friend
	upserts   int
}

func newFakeFriendStore(users *fakeUserStore) *fakeFriendStore {
	return &fakeFriendStore{
		users:     users,
		relations: make(map[string]*models.Friend),
	}
}

// withProfile mirrors the repository's join: counterpart name and scores come
// from the users table, not from the stored relation row.
func (s *fakeFriendStore) withProfile(rel *models.Friend) *models.Friend {
	out := *rel
	if u, ok := s.users.users[rel.FriendID]; ok {
		out.FriendName = u.Username
		out.TotalScore = u.TotalScore
		out.WeekScore = u.WeekScore
	}
	return &out
}

func relKey(userID, friendID string) string {
	return userID + "|" + friendID
}

func (s *fakeFriendStore) UpsertPair(_ context.Context, side, mirror *models.Friend) error {
	s.upserts++
	s.relations[relKey(side.UserID, side.FriendID)] = side
	s.relations[relKey(mirror.UserID, mirror.FriendID)] = mirror
	return nil
}

func (s *fakeFriendStore) UpdatePairStatus(_ context.Context, userID, friendID string, status models.FriendStatus) error {
	a, okA := s.relations[relKey(userID, friendID)]
	b, okB := s.relations[relKey(friendID, userID)]
	if !okA || !okB {
		return fmt.Errorf("friend relation %w", repository.ErrNotFound)
	}
	a.Status = status
	b.Status = status
	return nil
}

func (s *fakeFriendStore) Get(_ context.Context, userID, friendID string) (*models.Friend, error) {
	rel, ok := s.relations[relKey(userID, friendID)]
	if !ok {
		return nil, fmt.Errorf("friend relation %w", repository.ErrNotFound)
	}
	return s.withProfile(rel), nil
}

func (s *fakeFriendStore) ListByUser(_ context.Context, userID string) ([]*models.Friend, error) {
	var out []*models.Friend
	for _, rel := range s.relations {
		if rel.UserID == userID {
			out = append(out, s.withProfile(rel))
		}
	}
	return out, nil
}

func (s *fakeFriendStore) ListAcceptedIDs(_ context.Context, userID string) ([]string, error) {
	var out []string
	for _, rel := range s.relations {
		if rel.UserID == userID && rel.Status == models.FriendAccepted {
			out = append(out, rel.FriendID)
		}
	}
	return out, nil
}

type fakeChallengeStore struct {
	weekly  *models.Challenge
	queued  []*models.Challenge
	byID    map[string]*models.Challenge
	rotated int
}

func newFakeChallengeStore(weekly *models.Challenge, queued ...*models.Challenge) *fakeChallengeStore {
	s := &fakeChallengeStore{
		weekly: weekly,
		queued: queued,
		byID:   make(map[string]*models.Challenge),
	}
	if weekly != nil {
		s.byID[weekly.ID] = weekly
	}
	for _, c := range queued {
		s.byID[c.ID] = c
	}
	return s
}

func (s *fakeChallengeStore) GetWeekly(_ context.Context) (*models.Challenge, error) {
	if s.weekly == nil {
		return nil, fmt.Errorf("weekly challenge %w", repository.ErrNotFound)
	}
	return s.weekly, nil
}

func (s *fakeChallengeStore) GetByID(_ context.Context, id string) (*models.Challenge, error) {
	c, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("challenge %w", repository.ErrNotFound)
	}
	return c, nil
}

func (s *fakeChallengeStore) Rotate(_ context.Context) (*models.Challenge, error) {
	s.rotated++
	if s.weekly != nil {
		s.weekly.Status = models.ChallengeDone
		s.weekly = nil
	}
	if len(s.queued) == 0 {
		return nil, fmt.Errorf("queued challenge %w", repository.ErrNotFound)
	}
	next := s.queued[0]
	s.queued = s.queued[1:]
	next.Status = models.ChallengeWeekly
	s.weekly = next
	return next, nil
}

type fakeParticipationStore struct {
	participations map[string]*models.Participation
	titles         map[string]string
	createErr      error
}

func newFakeParticipationStore() *fakeParticipationStore {
	return &fakeParticipationStore{
		participations: make(map[string]*models.Participation),
		titles:         make(map[string]string),
	}
}

func (s *fakeParticipationStore) Create(_ context.Context, p *models.Participation) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.participations[relKey(p.ChallengeID, p.UserID)] = p
	return nil
}

func (s *fakeParticipationStore) Get(_ context.Context, challengeID, userID string) (*models.Participation, error) {
	p, ok := s.participations[relKey(challengeID, userID)]
	if !ok {
		return nil, fmt.Errorf("participation %w", repository.ErrNotFound)
	}
	return p, nil
}

func (s *fakeParticipationStore) Delete(_ context.Context, challengeID, userID string) error {
	key := relKey(challengeID, userID)
	if _, ok := s.participations[key]; !ok {
		return fmt.Errorf("participation %w", repository.ErrNotFound)
	}
	delete(s.participations, key)
	return nil
}

func (s *fakeParticipationStore) ListByUsers(_ context.Context, challengeID string, userIDs []string) ([]*models.Participation, error) {
	var out []*models.Participation
	for _, id := range userIDs {
		if p, ok := s.participations[relKey(challengeID, id)]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeParticipationStore) HistoryByUser(_ context.Context, userID string) ([]*models.HistoryEntry, error) {
	var out []*models.HistoryEntry
	for _, p := range s.participations {
		if p.UserID == userID {
			out = append(out, &models.HistoryEntry{
				ChallengeID:    p.ChallengeID,
				ChallengeTitle: s.titles[p.ChallengeID],
				ImageURL:       p.ImageURL,
				CreatedAt:      p.CreatedAt,
			})
		}
	}
	return out, nil
}

type fakeVoteStore struct {
	votes map[string]float64
}

func newFakeVoteStore() *fakeVoteStore {
	return &fakeVoteStore{votes: make(map[string]float64)}
}

func voteKey(challengeID, participantID, voterID string) string {
	return challengeID + "|" + participantID + "|" + voterID
}

func (s *fakeVoteStore) Upsert(_ context.Context, vote *models.Vote) error {
	s.votes[voteKey(vote.ChallengeID, vote.ParticipantID, vote.VoterID)] = vote.Rating
	return nil
}

func (s *fakeVoteStore) CountByVoter(_ context.Context, challengeID, voterID string, participantIDs []string) (int, error) {
	count := 0
	for _, pid := range participantIDs {
		if _, ok := s.votes[voteKey(challengeID, pid, voterID)]; ok {
			count++
		}
	}
	return count, nil
}

func (s *fakeVoteStore) AveragesByChallenge(_ context.Context, challengeID string) (map[string]float64, error) {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for key, rating := range s.votes {
		parts := strings.Split(key, "|")
		if parts[0] != challengeID {
			continue
		}
		sums[parts[1]] += rating
		counts[parts[1]]++
	}
	averages := make(map[string]float64, len(sums))
	for pid, sum := range sums {
		averages[pid] = sum / float64(counts[pid])
	}
	return averages, nil
}

type fakeSettingsStore struct {
	votingOpen bool
	getCalls   int
	getErr     error
}

func (s *fakeSettingsStore) Get(_ context.Context) (*models.Settings, error) {
	s.getCalls++
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &models.Settings{VotingOpen: s.votingOpen}, nil
}

func (s *fakeSettingsStore) SetVotingOpen(_ context.Context, open bool) error {
	s.votingOpen = open
	return nil
}

type fakeUploader struct {
	uploads   map[string][]byte
	deleted   []string
	uploadErr error
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{uploads: make(map[string][]byte)}
}

func (u *fakeUploader) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	if u.uploadErr != nil {
		return "", u.uploadErr
	}
	u.uploads[key] = data
	return "https://cdn.example.com/" + key, nil
}

func (u *fakeUploader) Delete(_ context.Context, imageURL string) error {
	u.deleted = append(u.deleted, imageURL)
	delete(u.uploads, strings.TrimPrefix(imageURL, "https://cdn.example.com/"))
	return nil
}
