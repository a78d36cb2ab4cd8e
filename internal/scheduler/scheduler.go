package scheduler

import (
	"context"
	"fmt"

	"friends-challenge-backend/internal/config"
	"friends-challenge-backend/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs the weekly cycle jobs on cron expressions: one entry opens
// the voting window late in the period, the other closes the period, scores
// it and promotes the next challenge.
type Scheduler struct {
	cron     *cron.Cron
	rotation *services.RotationService
}

// New creates a scheduler with the configured cron entries
func New(cfg config.SchedulerConfig, rotation *services.RotationService) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(),
		rotation: rotation,
	}

	if cfg.VotingOpenCron != "" {
		if _, err := s.cron.AddFunc(cfg.VotingOpenCron, s.openVoting); err != nil {
			return nil, fmt.Errorf("invalid voting_open_cron: %w", err)
		}
	}
	if cfg.RotationCron != "" {
		if _, err := s.cron.AddFunc(cfg.RotationCron, s.closePeriod); err != nil {
			return nil, fmt.Errorf("invalid rotation_cron: %w", err)
		}
	}

	return s, nil
}

// Start begins running the scheduled jobs
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Msg("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("Scheduler stopped")
}

func (s *Scheduler) openVoting() {
	if err := s.rotation.OpenVoting(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to open voting window")
	}
}

func (s *Scheduler) closePeriod() {
	if err := s.rotation.ClosePeriod(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to close period")
	}
}
