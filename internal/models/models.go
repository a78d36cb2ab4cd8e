package models

import "time"

// User represents a registered player
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	TotalScore   float64   `json:"total_score"`
	WeekScore    float64   `json:"week_score"`
	VotingDone   bool      `json:"voting_done"`
	PushToken    *string   `json:"push_token,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// FriendStatus is the state of one directional friend relation
type FriendStatus string

const (
	// FriendPending is the sender's view: request sent, awaiting an answer
	FriendPending FriendStatus = "PENDING"
	// FriendRequested is the recipient's view: someone asked to be friends
	FriendRequested FriendStatus = "REQUESTED"
	FriendAccepted  FriendStatus = "ACCEPTED"
	FriendRejected  FriendStatus = "REJECTED"
)

// Friend represents one directional relation row on a user's friend list.
// The mirrored row on the counterpart's list is maintained in the same
// transaction, so an accepted friendship always exists on both sides.
type Friend struct {
	UserID      string       `json:"-"`
	FriendID    string       `json:"friend_id"`
	FriendName  string       `json:"friend_name"`
	Status      FriendStatus `json:"status"`
	RequestedBy string       `json:"requested_by"`
	TotalScore  float64      `json:"total_score"`
	WeekScore   float64      `json:"week_score"`
	CreatedAt   time.Time    `json:"created_at"`
}

// ChallengeStatus is the lifecycle state of a challenge
type ChallengeStatus string

const (
	// ChallengeWeekly marks the single currently active challenge
	ChallengeWeekly ChallengeStatus = "WEEKLY"
	// ChallengeDone marks a finished challenge
	ChallengeDone ChallengeStatus = "DID"
	// ChallengeQueued marks a challenge not yet run
	ChallengeQueued ChallengeStatus = "NO"
)

// Challenge represents a photo challenge
type Challenge struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Status    ChallengeStatus `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// Participation is a user's single submission to a challenge
type Participation struct {
	ChallengeID string    `json:"challenge_id"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// HistoryEntry is a past participation shown on the user's profile
type HistoryEntry struct {
	ChallengeID    string    `json:"challenge_id"`
	ChallengeTitle string    `json:"challenge_title"`
	ImageURL       string    `json:"image_url"`
	CreatedAt      time.Time `json:"created_at"`
}

// Vote is one rating cast by a voter on a participation.
// Keyed by voter id, so re-voting overwrites the previous rating.
type Vote struct {
	ChallengeID   string    `json:"challenge_id"`
	ParticipantID string    `json:"participant_id"`
	VoterID       string    `json:"voter_id"`
	Rating        float64   `json:"rating"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LeaderboardEntry is one ranked row of the weekly leaderboard
type LeaderboardEntry struct {
	UserID    string  `json:"user_id"`
	Username  string  `json:"username"`
	WeekScore float64 `json:"week_score"`
	Rank      int     `json:"rank"`
}

// Leaderboard is the weekly ranking of a user and their accepted friends
type Leaderboard struct {
	Entries  []LeaderboardEntry `json:"entries"`
	Position int                `json:"position"`
}

// Settings holds the global application flags
type Settings struct {
	VotingOpen bool      `json:"voting_open"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Screen identifies which screen a client should show
type Screen string

const (
	ScreenLogin Screen = "login"
	ScreenHome  Screen = "home"
	ScreenVote  Screen = "vote"
)
