package retry

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"listing_portal_backend/platform/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func transientOnly(err error) bool { return errors.Is(err, errTransient) }

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), clock.NewFake(time.Unix(0, 0)), Policy{MaxAttempts: 3, Delay: time.Second, IsRetryable: transientOnly},
		func(context.Context, int) (string, error) {
			calls++
			return "ok", nil
		})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls)
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	permanent := errors.New("rejected")
	calls := 0
	_, err := Do(context.Background(), clock.NewFake(time.Unix(0, 0)), Policy{MaxAttempts: 3, Delay: time.Second, IsRetryable: transientOnly},
		func(context.Context, int) (int, error) {
			calls++
			return 0, permanent
		})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestDoWaitsFixedDelayBetweenAttempts(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	var calls atomic.Int32
	var retried []int

	done := make(chan error, 1)
	go func() {
		_, err := Do(context.Background(), fake, Policy{
			MaxAttempts: 3,
			Delay:       2 * time.Second,
			IsRetryable: transientOnly,
			OnRetry:     func(attempt int, _ error) { retried = append(retried, attempt) },
		}, func(context.Context, int) (int, error) {
			calls.Add(1)
			return 0, errTransient
		})
		done <- err
	}()

	require.True(t, fake.BlockUntil(1, time.Second))
	assert.Equal(t, int32(1), calls.Load())

	fake.Advance(time.Second)
	assert.Equal(t, int32(1), calls.Load(), "no attempt before the delay elapses")

	fake.Advance(time.Second)
	require.True(t, fake.BlockUntil(1, time.Second))
	assert.Equal(t, int32(2), calls.Load())

	fake.Advance(2 * time.Second)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, errTransient)
	case <-time.After(time.Second):
		t.Fatal("retry loop did not finish")
	}
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDoHonoursContextDuringWait(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := Do(ctx, fake, Policy{MaxAttempts: 3, Delay: time.Second, IsRetryable: transientOnly},
			func(context.Context, int) (int, error) { return 0, errTransient })
		done <- err
	}()

	require.True(t, fake.BlockUntil(1, time.Second))
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("retry loop ignored cancellation")
	}
}
