package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingDecayer struct {
	calls int
	err   error
}

func (c *countingDecayer) DecayTrending(ctx context.Context) (int64, error) {
	c.calls++
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("missing deadline")
	}
	return 2, c.err
}

func TestDecaySpecParses(t *testing.T) {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	sched, err := parser.Parse(DecaySpec)
	require.NoError(t, err)

	from := mustTime(t, "2026-03-01T10:15:00Z")
	assert.Equal(t, mustTime(t, "2026-03-01T11:00:00Z"), sched.Next(from))
}

func TestRunDecay(t *testing.T) {
	d := &countingDecayer{}
	s := NewScheduler(d)
	s.RunDecay()
	assert.Equal(t, 1, d.calls)

	d.err = errors.New("redis down")
	s.RunDecay()
	assert.Equal(t, 2, d.calls)
}

type idleSweeper struct{ idle []time.Duration }

func (s *idleSweeper) Sweep(idle time.Duration) int {
	s.idle = append(s.idle, idle)
	return 3
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(&countingDecayer{})
	sw := &idleSweeper{}
	s.AddSweep("chat limiter", sw, 10*time.Minute)
	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 2)
	<-s.Stop().Done()

	s.runSweep(s.sweeps[0])
	assert.Equal(t, []time.Duration{10 * time.Minute}, sw.idle)
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}
