package app

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/five82/rewake/internal/config"
	"github.com/five82/rewake/internal/state"
	"github.com/five82/rewake/internal/trigger"
)

func TestRuntime_FailureArmsWatchAndRecoveryRefreshes(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	cfg := config.Default()
	cfg.APIBind = addr
	cfg.PollInterval = time.Hour
	cfg.Network.ProbeTimeout = 200 * time.Millisecond
	cfg.Network.WatchInterval = 10 * time.Millisecond

	fetcher := &fakeFetcher{}
	fetcher.fail.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt, err := newRuntime(ctx, cfg, fetcher, nil)
	require.NoError(t, err)
	defer rt.close()

	done := make(chan error, 1)
	go func() {
		done <- rt.run(ctx, func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		})
	}()

	require.Eventually(t, func() bool { return rt.trigger.Stats().NetworkArmed }, 2*time.Second, 5*time.Millisecond)

	fetcher.fail.Store(false)
	ln, err = net.Listen("tcp", addr)
	if err != nil {
		t.Skipf("could not re-listen on %s: %v", addr, err)
	}
	defer ln.Close()

	require.Eventually(t, func() bool {
		snap := rt.store.Snapshot()
		return snap.LastError == nil && snap.LastReason == state.ReasonTrigger
	}, 2*time.Second, 5*time.Millisecond)
	require.Equal(t, trigger.ReasonNetwork, rt.trigger.Stats().LastReason)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("run did not return after cancel")
	}
	require.False(t, rt.trigger.Stats().NetworkArmed)
}

func TestRuntime_FrontReturningStopsPoller(t *testing.T) {
	cfg := config.Default()
	cfg.APIBind = "127.0.0.1:1"

	rt, err := newRuntime(context.Background(), cfg, &fakeFetcher{}, nil)
	require.NoError(t, err)
	defer rt.close()

	err = rt.run(context.Background(), func(context.Context) error { return nil })
	require.NoError(t, err)
	require.False(t, rt.trigger.Stats().LifecycleAttached)
}

func TestRuntime_ResumeAfterDelayRefreshes(t *testing.T) {
	cfg := config.Default()
	cfg.APIBind = "127.0.0.1:1"
	cfg.PollInterval = time.Hour
	cfg.Trigger.ResumeDelay = 0

	rt, err := newRuntime(context.Background(), cfg, &fakeFetcher{}, nil)
	require.NoError(t, err)
	defer rt.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = rt.run(ctx, func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		})
	}()

	require.Eventually(t, func() bool { return rt.store.Snapshot().Refreshes == 1 }, 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return rt.trigger.Stats().LifecycleAttached }, time.Second, 5*time.Millisecond)

	rt.focus.Set(trigger.Inactive)
	rt.focus.Set(trigger.Active)

	require.Eventually(t, func() bool {
		snap := rt.store.Snapshot()
		return snap.Refreshes == 2 && snap.LastReason == state.ReasonTrigger
	}, 2*time.Second, 5*time.Millisecond)
}
