package poller

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestSlowJobTicksAreSkippedNotOverlapped(t *testing.T) {
	var running, maxConcurrent, skips int32

	p := New(quietLogger(), func(name string, skipped bool, err error) {
		if skipped {
			atomic.AddInt32(&skips, 1)
		}
	})

	release := make(chan struct{})
	err := p.Add("slow", time.Second, func(ctx context.Context) error {
		n := atomic.AddInt32(&running, 1)
		for {
			cur := atomic.LoadInt32(&maxConcurrent)
			if n <= cur || atomic.CompareAndSwapInt32(&maxConcurrent, cur, n) {
				break
			}
		}
		<-release
		atomic.AddInt32(&running, -1)
		return nil
	})
	require.NoError(t, err)

	p.Start()
	defer p.Stop()

	// Wait for the first tick to land and block.
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&running) == 1
	}, 3*time.Second, 10*time.Millisecond)

	// Let at least one further tick arrive while the job is still in flight.
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&skips) >= 1
	}, 3*time.Second, 10*time.Millisecond)

	close(release)
	assert.Equal(t, int32(1), atomic.LoadInt32(&maxConcurrent))
}

func TestStopCancelsInFlightJob(t *testing.T) {
	started := make(chan struct{})
	var sawCancel atomic.Bool

	p := New(quietLogger(), nil)
	var once sync.Once
	err := p.Add("cancellable", time.Second, func(ctx context.Context) error {
		once.Do(func() { close(started) })
		<-ctx.Done()
		sawCancel.Store(true)
		return ctx.Err()
	})
	require.NoError(t, err)

	p.Start()
	<-started
	p.Stop()

	assert.Eventually(t, func() bool { return sawCancel.Load() }, time.Second, 10*time.Millisecond)
}

func TestObserverSeesOutcomes(t *testing.T) {
	var mu sync.Mutex
	outcomes := map[string]int{}

	p := New(quietLogger(), func(name string, skipped bool, err error) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case skipped:
			outcomes["skipped"]++
		case err != nil:
			outcomes["error"]++
		default:
			outcomes["ok"]++
		}
	})

	require.NoError(t, p.Add("ok", time.Second, func(ctx context.Context) error { return nil }))

	p.Start()
	defer p.Stop()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return outcomes["ok"] >= 1
	}, 3*time.Second, 10*time.Millisecond)
}
