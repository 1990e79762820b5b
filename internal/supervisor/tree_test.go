// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/tomtom215/observa/internal/auth"
	"github.com/tomtom215/observa/internal/logging"
)

// fakeService runs until canceled, after failing the first fails starts.
type fakeService struct {
	name   string
	fails  int32
	starts atomic.Int32
}

func (f *fakeService) Serve(ctx context.Context) error {
	if n := f.starts.Add(1); n <= f.fails {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeService) String() string { return f.name }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNewTree_Defaults(t *testing.T) {
	tree := NewTree(quietLogger(), TreeConfig{FailureBackoff: time.Second})

	want := DefaultTreeConfig()
	want.FailureBackoff = time.Second
	if tree.config != want {
		t.Errorf("config = %+v, want %+v", tree.config, want)
	}
}

func TestTree_StartsAndStopsBothLayers(t *testing.T) {
	defer goleak.VerifyNone(t)

	tree := NewTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})
	data := &fakeService{name: "data"}
	api := &fakeService{name: "api"}
	tree.AddDataService(data)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	waitFor(t, "both services", func() bool {
		return data.starts.Load() == 1 && api.starts.Load() == 1
	})
	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not stop")
	}

	if report, err := tree.UnstoppedServiceReport(); err != nil || len(report) != 0 {
		t.Errorf("unstopped services = %v, %v", report, err)
	}
}

func TestTree_RestartsFailingDataService(t *testing.T) {
	tree := NewTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})
	flaky := &fakeService{name: "flaky", fails: 2}
	stable := &fakeService{name: "stable"}
	tree.AddDataService(flaky)
	tree.AddAPIService(stable)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)
	defer func() {
		cancel()
		<-errCh
	}()

	waitFor(t, "flaky restarts", func() bool { return flaky.starts.Load() >= 3 })
	if stable.starts.Load() != 1 {
		t.Errorf("stable service started %d times, want 1", stable.starts.Load())
	}
}

func TestTree_RunsSessionMonitor(t *testing.T) {
	defer goleak.VerifyNone(t)

	backend := auth.NewMemoryBackend()
	st := backend.Scope("stale-client")
	ctx := context.Background()
	_ = st.Set(ctx, auth.KeyAuthenticated, "true")
	_ = st.Set(ctx, auth.KeySessionID, "s-1")
	_ = st.Set(ctx, auth.KeyLastActivity, time.Now().Add(-48*time.Hour).Format(time.RFC3339Nano))

	security := logging.NewSecurityLoggerWithLogger(logging.NewTestLogger(io.Discard))
	monitor := auth.NewMonitor(backend, auth.NewSessions(auth.DefaultMaxAge), 10*time.Millisecond, security)

	tree := NewTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})
	tree.AddDataService(monitor)

	runCtx, cancel := context.WithCancel(ctx)
	errCh := tree.ServeBackground(runCtx)

	waitFor(t, "stale session to be cleared", func() bool {
		ids, _ := backend.Namespaces(ctx)
		return len(ids) == 0
	})
	cancel()
	<-errCh
}
