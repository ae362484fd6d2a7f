package jobs

import (
	"log"

	"github.com/robfig/cron/v3"

	"marketplace/internal/config"
)

// Manager owns the background cron schedule.
type Manager struct {
	cron *cron.Cron
}

// NewManager registers the configured jobs. Nothing runs until Start.
func NewManager(cfg config.JobsConfig, movement *MovementJob) (*Manager, error) {
	c := cron.New()

	if cfg.MovementEnabled {
		if _, err := c.AddJob(cfg.MovementSpec, movement); err != nil {
			return nil, err
		}
		log.Printf("jobs: driver movement scheduled %q (step %.2f km)", cfg.MovementSpec, cfg.MovementStepKm)
	}

	return &Manager{cron: c}, nil
}

// Start launches the schedule in its own goroutine.
func (m *Manager) Start() {
	m.cron.Start()
}

// Stop halts the schedule and waits for running jobs to finish.
func (m *Manager) Stop() {
	<-m.cron.Stop().Done()
}

var _ cron.Job = (*MovementJob)(nil)
