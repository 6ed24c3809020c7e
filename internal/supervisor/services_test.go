package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServer struct {
	listenErr error
	stopped   chan struct{}
	shutdowns atomic.Int32
}

func newFakeServer(listenErr error) *fakeServer {
	return &fakeServer{listenErr: listenErr, stopped: make(chan struct{})}
}

func (f *fakeServer) ListenAndServe() error {
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.stopped
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(ctx context.Context) error {
	f.shutdowns.Add(1)
	close(f.stopped)
	return nil
}

func TestHTTPService_GracefulShutdown(t *testing.T) {
	srv := newFakeServer(nil)
	svc := NewHTTPService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("service did not stop")
	}
	assert.Equal(t, int32(1), srv.shutdowns.Load())
}

func TestHTTPService_ListenFailure(t *testing.T) {
	svc := NewHTTPService(newFakeServer(errors.New("address in use")), time.Second)

	err := svc.Serve(context.Background())
	assert.ErrorContains(t, err, "address in use")
	assert.Equal(t, "http-server", svc.String())
}

type fakeScheduler struct {
	err error
}

func (f *fakeScheduler) Serve(ctx context.Context) error {
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return ctx.Err()
}

type fakeOrchestrator struct {
	shutdowns atomic.Int32
}

func (f *fakeOrchestrator) Shutdown(ctx context.Context) error {
	f.shutdowns.Add(1)
	return nil
}

func TestSchedulerService_ShutsDownOrchestrator(t *testing.T) {
	orch := &fakeOrchestrator{}
	svc := NewSchedulerService(&fakeScheduler{}, orch, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("service did not stop")
	}
	assert.Equal(t, int32(1), orch.shutdowns.Load())
}

func TestSchedulerService_FailureIsReturnedForRestart(t *testing.T) {
	orch := &fakeOrchestrator{}
	svc := NewSchedulerService(&fakeScheduler{err: errors.New("settings unreadable")}, orch, time.Second)

	err := svc.Serve(context.Background())
	assert.ErrorContains(t, err, "settings unreadable")
	assert.Equal(t, int32(0), orch.shutdowns.Load())
}

func TestTree_ServesUntilCancelled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tree := NewTree(logger, TreeConfig{ShutdownTimeout: time.Second})

	srv := newFakeServer(nil)
	orch := &fakeOrchestrator{}
	tree.AddAPIService(NewHTTPService(srv, time.Second))
	tree.AddSchedulerService(NewSchedulerService(&fakeScheduler{}, orch, time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tree.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			require.ErrorIs(t, err, context.Canceled)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("tree did not stop")
	}
	assert.Equal(t, int32(1), srv.shutdowns.Load())
	assert.Equal(t, int32(1), orch.shutdowns.Load())
}
