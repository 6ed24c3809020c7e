package service

import (
	"sync"
	"time"

	"podcast_syncer/internal/domain"
	"podcast_syncer/internal/runctl"
)

const (
	StatusIdle   = "idle"
	StatusPaused = "paused"
)

// Status is a point-in-time view of the orchestrator.
type Status struct {
	IsRunning     bool               `json:"isRunning"`
	IsPaused      bool               `json:"isPaused"`
	Progress      float64            `json:"currentProgress"`
	CurrentStatus string             `json:"currentStatus"`
	SessionID     string             `json:"sessionId,omitempty"`
	Trigger       domain.TriggerKind `json:"trigger,omitempty"`
	StartedAt     *time.Time         `json:"startedAt,omitempty"`
	LastSyncTime  *time.Time         `json:"lastSyncTime"`
	LastError     string             `json:"lastError,omitempty"`
	Stats         domain.SyncStats   `json:"syncStats"`
}

// RunState is the mutable state of the current run, guarded by its own lock.
type RunState struct {
	mu       sync.RWMutex
	running  bool
	token    *runctl.Token
	current  domain.SyncSession
	progress float64
	last     *domain.SyncSession
}

func (s *RunState) begin(session *domain.SyncSession, token *runctl.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return domain.ErrAlreadyRunning
	}

	s.running = true
	s.token = token
	s.current = *session
	s.progress = 0
	return nil
}

// abort releases the guard for a run that never got a session row.
func (s *RunState) abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.token = nil
}

func (s *RunState) setTotal(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.TotalPodcasts = n
}

func (s *RunState) setQuota(units int64) domain.SyncStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.QuotaUsed = units
	return s.current.SyncStats
}

// recordPodcast tallies one finished podcast and returns the updated counters and
// progress.
func (s *RunState) recordPodcast(ok bool, episodes int, res WriteResult) (domain.SyncStats, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ok {
		s.current.SuccessfulPodcasts++
	} else {
		s.current.FailedPodcasts++
	}
	s.current.TotalEpisodes += episodes
	s.current.SuccessfulEpisodes += res.Written
	s.current.FailedEpisodes += res.Failed
	s.current.NewEpisodes += res.New

	if total := s.current.TotalPodcasts; total > 0 {
		p := float64(s.current.ProcessedPodcasts()) / float64(total) * 100
		if p > s.progress {
			s.progress = p
		}
	}

	return s.current.SyncStats, s.progress
}

func (s *RunState) stats() domain.SyncStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.SyncStats
}

func (s *RunState) finish(session *domain.SyncSession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.Status == domain.SessionCompleted {
		s.progress = 100
	}

	last := *session
	s.last = &last
	s.running = false
	s.token = nil
}

// restore seeds the last-run view, typically from the session table at startup.
func (s *RunState) restore(session *domain.SyncSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || s.last != nil {
		return
	}
	last := *session
	s.last = &last
	if last.Status == domain.SessionCompleted {
		s.progress = 100
	}
}

func (s *RunState) activeToken() *runctl.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *RunState) snapshot() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st Status
	if s.last != nil {
		st.LastSyncTime = s.last.EndedAt
	}

	if s.running {
		startedAt := s.current.StartedAt
		st.IsRunning = true
		st.IsPaused = s.token != nil && s.token.Paused()
		st.Progress = s.progress
		st.CurrentStatus = string(domain.SessionRunning)
		if st.IsPaused {
			st.CurrentStatus = StatusPaused
		}
		st.SessionID = s.current.ID
		st.Trigger = s.current.Trigger
		st.StartedAt = &startedAt
		st.Stats = s.current.SyncStats
		return st
	}

	if s.last == nil {
		st.CurrentStatus = StatusIdle
		return st
	}

	startedAt := s.last.StartedAt
	st.Progress = s.progress
	st.CurrentStatus = string(s.last.Status)
	st.SessionID = s.last.ID
	st.Trigger = s.last.Trigger
	st.StartedAt = &startedAt
	st.Stats = s.last.SyncStats
	if s.last.ErrorMessage != nil {
		st.LastError = *s.last.ErrorMessage
	}
	return st
}
