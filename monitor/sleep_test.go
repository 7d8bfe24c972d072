package monitor_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/stockwatch/monitor"
	"github.com/stretchr/testify/assert"
)

func TestTimerSleeper(t *testing.T) {
	t.Parallel()

	t.Run("returns after the duration", func(t *testing.T) {
		t.Parallel()

		start := time.Now()
		err := monitor.TimerSleeper{}.Sleep(context.Background(), 20*time.Millisecond)

		assert.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("returns early when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		start := time.Now()
		err := monitor.TimerSleeper{}.Sleep(ctx, time.Hour)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), time.Second)
	})
}
