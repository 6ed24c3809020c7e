package publisher

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podcast_syncer/internal/domain"
)

func TestSessionEvent(t *testing.T) {
	tests := []struct {
		status domain.SessionStatus
		want   string
	}{
		{domain.SessionRunning, EventSessionStarted},
		{domain.SessionCompleted, EventSessionCompleted},
		{domain.SessionFailed, EventSessionFailed},
		{domain.SessionCancelled, EventSessionCancelled},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, SessionEvent(tt.status))
		})
	}
}

func TestNewSessionMessage_JSON(t *testing.T) {
	started := time.Date(2026, 6, 1, 3, 0, 0, 0, time.UTC)
	ended := started.Add(5 * time.Minute)
	reason := "api quota exhausted"

	session := &domain.SyncSession{
		ID:           "0b6c3c1e-7c3a-4f7e-8f0e-9a1c2b3d4e5f",
		Trigger:      domain.TriggerScheduled,
		Status:       domain.SessionFailed,
		StartedAt:    started,
		EndedAt:      &ended,
		ErrorMessage: &reason,
		SyncStats:    domain.SyncStats{TotalPodcasts: 3, SuccessfulPodcasts: 2, QuotaUsed: 17},
	}

	body, err := json.Marshal(NewSessionMessage(session, ended))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, EventSessionFailed, decoded["event"])

	inner, ok := decoded["session"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, session.ID, inner["id"])
	assert.Equal(t, "scheduled", inner["trigger"])
	assert.Equal(t, "failed", inner["status"])
	assert.Equal(t, reason, inner["errorMessage"])
	assert.EqualValues(t, 3, inner["totalPodcasts"])
	assert.EqualValues(t, 17, inner["quotaUsed"])
}

func TestNewDiscoveryMessage(t *testing.T) {
	found := time.Date(2026, 6, 1, 3, 4, 0, 0, time.UTC)
	msg := NewDiscoveryMessage(&domain.Discovery{
		PodcastID:    7,
		EpisodeID:    42,
		ExternalID:   "dQw4w9WgXcQ",
		Title:        "Episode 1",
		DiscoveredAt: found,
	}, found)

	assert.Equal(t, EventEpisodeDiscovered, msg.Event)
	assert.Equal(t, int64(42), msg.EpisodeID)

	body, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "sessionId")
	assert.Contains(t, string(body), `"externalId":"dQw4w9WgXcQ"`)
}
