package supervisor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPService adapts an http.Server to suture's Serve lifecycle.
type HTTPService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
}

func NewHTTPService(server HTTPServer, shutdownTimeout time.Duration) *HTTPService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPService{server: server, shutdownTimeout: shutdownTimeout}
}

func (h *HTTPService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

func (h *HTTPService) String() string {
	return "http-server"
}

type Scheduler interface {
	Serve(ctx context.Context) error
}

type Orchestrator interface {
	Shutdown(ctx context.Context) error
}

// SchedulerService runs the daily scheduler and, on shutdown, cancels any run in
// flight and waits for its session to be finalized.
type SchedulerService struct {
	scheduler       Scheduler
	orchestrator    Orchestrator
	shutdownTimeout time.Duration
}

func NewSchedulerService(scheduler Scheduler, orchestrator Orchestrator, shutdownTimeout time.Duration) *SchedulerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &SchedulerService{
		scheduler:       scheduler,
		orchestrator:    orchestrator,
		shutdownTimeout: shutdownTimeout,
	}
}

func (s *SchedulerService) Serve(ctx context.Context) error {
	err := s.scheduler.Serve(ctx)
	if ctx.Err() == nil {
		if err == nil {
			err = errors.New("scheduler exited unexpectedly")
		}
		return fmt.Errorf("scheduler: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.orchestrator.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("orchestrator shutdown: %w", err)
	}
	return ctx.Err()
}

func (s *SchedulerService) String() string {
	return "scheduler"
}
