package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"StarMiner/internal/engine"

	"github.com/robfig/cron/v3"
)

// Game is the part of the engine the scheduler drives.
type Game interface {
	Sweep(ctx context.Context) []engine.Outcome
	Flush(ctx context.Context) (int, error)
}

// Scheduler runs the periodic game tasks.
type Scheduler struct {
	Cron *cron.Cron
	Game Game
	Ctx  context.Context
}

// NewScheduler creates a scheduler with second-resolution specs. A task still
// running when its next tick fires is skipped.
func NewScheduler(ctx context.Context, game Game) *Scheduler {
	logger := cron.VerbosePrintfLogger(log.New(os.Stderr, "cron: ", log.LstdFlags))
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		Game: game,
		Ctx:  ctx,
	}
}

// RegisterAll registers the pending-action sweep and the periodic backup.
func (s *Scheduler) RegisterAll(sweepCron, backupCron string) error {
	if _, err := s.Cron.AddFunc(sweepCron, s.sweepTask); err != nil {
		return fmt.Errorf("register sweep task: %w", err)
	}
	if _, err := s.Cron.AddFunc(backupCron, s.backupTask); err != nil {
		return fmt.Errorf("register backup task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the scheduler and waits for running tasks to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) sweepTask() {
	if n := len(s.Game.Sweep(s.Ctx)); n > 0 {
		log.Printf("[INFO] sweep resolved actions for %d players", n)
	}
}

func (s *Scheduler) backupTask() {
	start := time.Now()
	n, err := s.Game.Flush(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] backup: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[INFO] backup wrote %d players in %v", n, time.Since(start).Round(time.Millisecond))
	}
}
