package domain

import "time"

type TriggerKind string

const (
	TriggerManual    TriggerKind = "manual"
	TriggerScheduled TriggerKind = "scheduled"
)

type SessionStatus string

const (
	SessionRunning   SessionStatus = "running"
	SessionCompleted SessionStatus = "completed"
	SessionFailed    SessionStatus = "failed"
	SessionCancelled SessionStatus = "cancelled"
)

// Terminal reports whether the status is one a session is finalized to.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionFailed || s == SessionCancelled
}

// SyncStats holds the counters accumulated during a run.
type SyncStats struct {
	TotalPodcasts      int   `db:"total_podcasts" json:"totalPodcasts"`
	SuccessfulPodcasts int   `db:"successful_podcasts" json:"successfulPodcasts"`
	FailedPodcasts     int   `db:"failed_podcasts" json:"failedPodcasts"`
	TotalEpisodes      int   `db:"total_episodes" json:"totalEpisodes"`
	SuccessfulEpisodes int   `db:"successful_episodes" json:"successfulEpisodes"`
	FailedEpisodes     int   `db:"failed_episodes" json:"failedEpisodes"`
	NewEpisodes        int   `db:"new_episodes" json:"newEpisodes"`
	QuotaUsed          int64 `db:"quota_used" json:"quotaUsed"`
}

// ProcessedPodcasts is the number of podcasts that reached a terminal outcome.
func (s SyncStats) ProcessedPodcasts() int {
	return s.SuccessfulPodcasts + s.FailedPodcasts
}

// SyncSession is one end-to-end execution of the orchestrator.
type SyncSession struct {
	ID           string        `db:"id" json:"id"`
	Trigger      TriggerKind   `db:"trigger_kind" json:"trigger"`
	Status       SessionStatus `db:"status" json:"status"`
	StartedAt    time.Time     `db:"started_at" json:"startedAt"`
	EndedAt      *time.Time    `db:"ended_at" json:"endedAt,omitempty"`
	ErrorMessage *string       `db:"error_message" json:"errorMessage,omitempty"`
	SyncStats
}

// Duration returns how long the session ran, or has been running.
func (s *SyncSession) Duration() time.Duration {
	if s.EndedAt != nil {
		return s.EndedAt.Sub(s.StartedAt)
	}
	return time.Since(s.StartedAt)
}
