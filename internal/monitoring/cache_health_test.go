package monitoring

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type flakyPinger struct {
	failing atomic.Bool
	pings   atomic.Int32
}

func (f *flakyPinger) Ping(context.Context) error {
	f.pings.Add(1)
	if f.failing.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func TestMonitorCacheHealthTracksPings(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pinger := &flakyPinger{}
	pinger.failing.Store(true)
	healthy := &atomic.Bool{}
	healthy.Store(true)

	done := make(chan struct{})
	go func() {
		MonitorCacheHealth(ctx, pinger, healthy, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return !healthy.Load() }, time.Second, 5*time.Millisecond)

	pinger.failing.Store(false)
	assert.Eventually(t, healthy.Load, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after cancel")
	}
	assert.Positive(t, pinger.pings.Load())
}
