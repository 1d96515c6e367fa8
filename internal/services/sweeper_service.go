package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/notemeet/notemeet/internal/domain/subscription"
	"github.com/notemeet/notemeet/internal/pkg/logger"
	"github.com/robfig/cron/v3"
)

// SweeperService periodically expires active subscriptions whose billing
// period has ended. The sweep itself is idempotent, so overlapping runs
// after a slow database are harmless.
type SweeperService struct {
	subs     subscription.Service
	schedule string
	logger   *logger.Logger

	scheduler    *cron.Cron
	isRunning    bool
	runningMutex sync.Mutex
}

// NewSweeperService creates a new expiry sweeper
func NewSweeperService(subs subscription.Service, schedule string, log *logger.Logger) *SweeperService {
	return &SweeperService{
		subs:     subs,
		schedule: schedule,
		logger:   log,
	}
}

// Start begins the periodic sweep and runs one sweep immediately
func (s *SweeperService) Start() error {
	s.runningMutex.Lock()
	defer s.runningMutex.Unlock()

	if s.isRunning {
		return fmt.Errorf("sweeper is already running")
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid sweeper schedule %q: %w", s.schedule, err)
	}

	s.scheduler = cron.New()
	if _, err := s.scheduler.AddFunc(s.schedule, s.sweep); err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	s.scheduler.Start()
	s.isRunning = true

	s.logger.With("schedule", s.schedule).Info("Expiry sweeper started")

	go s.sweep()
	return nil
}

// Stop halts the periodic sweep, waiting for an in-flight run to finish
func (s *SweeperService) Stop() {
	s.runningMutex.Lock()
	defer s.runningMutex.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.scheduler.Stop()
	<-ctx.Done()
	s.isRunning = false

	s.logger.Info("Expiry sweeper stopped")
}

func (s *SweeperService) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	affected, err := s.subs.ExpireDue(ctx, time.Now())
	if err != nil {
		s.logger.ErrorWithErr(err, "Expiry sweep failed")
		return
	}

	s.logger.With("expired", affected).Debug("Expiry sweep completed")
}
