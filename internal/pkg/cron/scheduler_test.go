package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOnce_ExecutesEveryJob(t *testing.T) {
	s := NewScheduler()

	var first, second atomic.Int32
	s.AddJob("first", time.Hour, func(ctx context.Context) error {
		first.Add(1)
		return nil
	})
	s.AddJob("second", time.Hour, func(ctx context.Context) error {
		second.Add(1)
		return nil
	})

	s.RunOnce(context.Background())
	assert.Equal(t, int32(1), first.Load())
	assert.Equal(t, int32(1), second.Load())
}

func TestRunOnce_FailingJobDoesNotStopOthers(t *testing.T) {
	s := NewScheduler()

	var ran atomic.Int32
	s.AddJob("failing", time.Hour, func(ctx context.Context) error {
		return errors.New("boom")
	})
	s.AddJob("healthy", time.Hour, func(ctx context.Context) error {
		ran.Add(1)
		return nil
	})

	s.RunOnce(context.Background())
	assert.Equal(t, int32(1), ran.Load())
}

func TestStart_RunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()

	executed := make(chan struct{}, 1)
	s.AddJob("job", time.Hour, func(ctx context.Context) error {
		select {
		case executed <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	select {
	case <-executed:
	case <-time.After(5 * time.Second):
		require.Fail(t, "job did not run on start")
	}
	s.Stop()
}
