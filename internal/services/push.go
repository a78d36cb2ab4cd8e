package services

import (
	"fmt"

	"friends-challenge-backend/internal/config"

	"github.com/rs/zerolog/log"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
)

// PushService sends APNs notifications to registered devices.
// It is a no-op when no signing key is configured.
type PushService struct {
	client *apns2.Client
	topic  string
}

// NewPushService creates a new push service
func NewPushService(cfg config.APNSConfig) (*PushService, error) {
	if cfg.KeyFile == "" {
		return &PushService{}, nil
	}

	authKey, err := token.AuthKeyFromFile(cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs key: %w", err)
	}

	client := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   cfg.KeyID,
		TeamID:  cfg.TeamID,
	}).Production()

	return &PushService{
		client: client,
		topic:  cfg.Topic,
	}, nil
}

// Enabled reports whether pushes are configured
func (s *PushService) Enabled() bool {
	return s.client != nil
}

// Send delivers an alert push to a device token
func (s *PushService) Send(deviceToken, title, body string) error {
	if s.client == nil {
		return nil
	}

	notification := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       s.topic,
		Payload:     payload.NewPayload().AlertTitle(title).AlertBody(body),
	}

	res, err := s.client.Push(notification)
	if err != nil {
		return fmt.Errorf("failed to send push: %w", err)
	}
	if !res.Sent() {
		return fmt.Errorf("push rejected: %s", res.Reason)
	}

	log.Debug().Str("apns_id", res.ApnsID).Msg("Push sent")
	return nil
}
