package scheduler_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/arkade-os/nftbridge/internal/core/ports"
	timescheduler "github.com/arkade-os/nftbridge/internal/infrastructure/scheduler/gocron"
	"github.com/stretchr/testify/require"
)

func TestScheduleTaskOnce(t *testing.T) {
	t.Parallel()

	scheduler := newScheduler(t)

	t.Run("future", func(t *testing.T) {
		var count atomic.Int64
		err := scheduler.ScheduleTaskOnce(time.Now().Add(2*time.Second).Unix(), func() {
			count.Add(1)
		})
		require.NoError(t, err)

		time.Sleep(500 * time.Millisecond)
		require.Zero(t, count.Load())

		require.Eventually(t, func() bool {
			return count.Load() == 1
		}, 5*time.Second, 100*time.Millisecond)
	})

	t.Run("past", func(t *testing.T) {
		var called atomic.Bool
		err := scheduler.ScheduleTaskOnce(time.Now().Add(-time.Minute).Unix(), func() {
			called.Store(true)
		})
		require.NoError(t, err)

		require.Eventually(t, called.Load, time.Second, 10*time.Millisecond)
	})
}

func TestScheduleTaskEvery(t *testing.T) {
	t.Parallel()

	scheduler := newScheduler(t)

	var count atomic.Int64
	err := scheduler.ScheduleTaskEvery(time.Second, func() {
		count.Add(1)
	})
	require.NoError(t, err)

	time.Sleep(3500 * time.Millisecond)

	require.GreaterOrEqual(t, count.Load(), int64(2))

	err = scheduler.ScheduleTaskEvery(0, func() {})
	require.Error(t, err)
}

func newScheduler(t *testing.T) ports.SchedulerService {
	scheduler := timescheduler.NewScheduler()
	scheduler.Start()
	t.Cleanup(scheduler.Stop)
	return scheduler
}
