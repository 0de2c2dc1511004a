package retry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelay(t *testing.T) {
	p := Policy{
		MaxAttempts: 3,
		Schedule:    []time.Duration{5 * time.Second, 10 * time.Second, 20 * time.Second},
	}

	assert.Equal(t, 5*time.Second, p.Delay(0))
	assert.Equal(t, 10*time.Second, p.Delay(1))
	assert.Equal(t, 20*time.Second, p.Delay(2))

	// Attempts past the schedule reuse the last slot.
	assert.Equal(t, 20*time.Second, p.Delay(3))
	assert.Equal(t, 20*time.Second, p.Delay(100))

	assert.Equal(t, 5*time.Second, p.Delay(-1))
}

func TestDelayEmptySchedule(t *testing.T) {
	p := Policy{MaxAttempts: 3}
	assert.Equal(t, time.Duration(0), p.Delay(0))
}

func TestSleepHonorsCancellation(t *testing.T) {
	p := Policy{MaxAttempts: 3, Schedule: []time.Duration{time.Minute}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := p.Sleep(ctx, 0)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSleepCompletesShortSlot(t *testing.T) {
	p := Policy{MaxAttempts: 3, Schedule: []time.Duration{time.Millisecond}}
	assert.NoError(t, p.Sleep(context.Background(), 0))
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, 3, p.MaxAttempts)
	require.Len(t, p.Schedule, 3)
	assert.Equal(t, 5*time.Second, p.Schedule[0])
}
