package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolrental-console/internal/config"
	"toolrental-console/internal/jobs"
)

func runner(schedule string) *jobs.JobRunner {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{MarkOverdueLoans: schedule}}
	return jobs.NewJobRunner(nil, cfg)
}

func TestNewScheduler(t *testing.T) {
	t.Run("Registers the overdue refresh", func(t *testing.T) {
		s, err := NewScheduler(runner("0 0 2 * * *"))
		require.NoError(t, err)
		assert.True(t, s.IsRunning())

		s.Start()
		defer s.Stop()
		next := s.NextRun()
		require.False(t, next.IsZero())
		assert.Equal(t, time.UTC, next.Location())
		assert.Equal(t, 2, next.Hour())
		assert.Equal(t, 0, next.Minute())
	})

	t.Run("Rejects a bad expression", func(t *testing.T) {
		_, err := NewScheduler(runner("every night"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mark_overdue_loans")
	})

	t.Run("Five fields are not enough with seconds", func(t *testing.T) {
		_, err := NewScheduler(runner("0 2 * * *"))
		assert.Error(t, err)
	})
}
