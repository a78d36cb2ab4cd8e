package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Notifier fans friend and voting events out over WebSocket and APNs.
// Delivery is best effort: a failed notification is logged, never surfaced
// to the operation that triggered it.
type Notifier struct {
	hub   *WSHub
	push  *PushService
	users UserStore
}

// NewNotifier creates a new notifier
func NewNotifier(hub *WSHub, push *PushService, users UserStore) *Notifier {
	return &Notifier{
		hub:   hub,
		push:  push,
		users: users,
	}
}

// FriendRequested notifies a user of an incoming friend request
func (n *Notifier) FriendRequested(ctx context.Context, toUserID, fromUsername string) {
	n.deliver(ctx, toUserID, WSMessage{
		Type: "friend_request",
		Data: map[string]interface{}{"from": fromUsername},
	}, "New friend request", fmt.Sprintf("%s wants to be your friend", fromUsername))
}

// FriendAccepted notifies a user that their request was accepted
func (n *Notifier) FriendAccepted(ctx context.Context, toUserID, byUsername string) {
	n.deliver(ctx, toUserID, WSMessage{
		Type: "friend_accepted",
		Data: map[string]interface{}{"by": byUsername},
	}, "Friend request accepted", fmt.Sprintf("%s accepted your friend request", byUsername))
}

// VotingOpened announces the voting window to all connected clients
func (n *Notifier) VotingOpened() {
	n.hub.Broadcast(WSMessage{Type: "voting_open"})
}

func (n *Notifier) deliver(ctx context.Context, userID string, msg WSMessage, pushTitle, pushBody string) {
	if err := n.hub.SendToUser(userID, msg); err != nil {
		log.Debug().Str("user_id", userID).Str("type", msg.Type).Msg("User not connected, skipping WebSocket event")
	}

	if n.push == nil || !n.push.Enabled() {
		return
	}

	user, err := n.users.GetByID(ctx, userID)
	if err != nil || user.PushToken == nil {
		return
	}
	if err := n.push.Send(*user.PushToken, pushTitle, pushBody); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to send push notification")
	}
}
