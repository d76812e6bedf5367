package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/moto-tune/suspension-backend/internal/logging"
)

// DecaySpec runs the trending decay at the top of every hour.
const DecaySpec = "0 0 * * * *"

// SweepSpec runs idle-bucket sweeps every five minutes.
const SweepSpec = "0 */5 * * * *"

// Decayer runs one pass over the trending scores.
type Decayer interface {
	DecayTrending(ctx context.Context) (int64, error)
}

// Sweeper drops entries idle for longer than the given duration.
type Sweeper interface {
	Sweep(idle time.Duration) int
}

type sweep struct {
	name    string
	sweeper Sweeper
	idle    time.Duration
}

type Scheduler struct {
	cron    *cron.Cron
	decayer Decayer
	sweeps  []sweep
	timeout time.Duration
}

func NewScheduler(decayer Decayer) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		decayer: decayer,
		timeout: 30 * time.Second,
	}
}

// AddSweep schedules s on SweepSpec. Call before Start.
func (s *Scheduler) AddSweep(name string, sweeper Sweeper, idle time.Duration) {
	s.sweeps = append(s.sweeps, sweep{name: name, sweeper: sweeper, idle: idle})
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(DecaySpec, s.RunDecay); err != nil {
		return err
	}
	for _, sw := range s.sweeps {
		sw := sw
		if _, err := s.cron.AddFunc(SweepSpec, func() { s.runSweep(sw) }); err != nil {
			return fmt.Errorf("schedule %s sweep: %w", sw.name, err)
		}
	}
	logging.New(context.Background()).Infof("cron start", "jobs=%d", len(s.cron.Entries()))
	s.cron.Start()
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// RunDecay is the trending decay job body.
func (s *Scheduler) RunDecay() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	log := logging.New(ctx)
	removed, err := s.decayer.DecayTrending(ctx)
	if err != nil {
		log.Error("trending decay", err)
		return
	}
	log.Infof("trending decay", "removed=%d", removed)
}

func (s *Scheduler) runSweep(sw sweep) {
	if n := sw.sweeper.Sweep(sw.idle); n > 0 {
		logging.New(context.Background()).With("sweeper", sw.name).Infof("sweep", "removed=%d", n)
	}
}
