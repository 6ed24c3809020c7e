// Package metrics holds the prometheus collectors for the syncer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Sync runs
	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_runs_total",
			Help: "Total number of finished sync runs",
		},
		[]string{"trigger", "status"},
	)

	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sync_duration_seconds",
			Help:    "Duration of sync runs in seconds",
			Buckets: []float64{10, 30, 60, 300, 600, 1800, 3600, 7200},
		},
	)

	SyncProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_progress_percent",
			Help: "Progress of the current sync run",
		},
	)

	SyncRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_running",
			Help: "1 while a sync run is in progress",
		},
	)

	SyncPodcasts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_podcasts_total",
			Help: "Podcasts processed by sync runs",
		},
		[]string{"result"}, // "success", "failed"
	)

	SyncEpisodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_episodes_total",
			Help: "Episodes written by sync runs",
		},
		[]string{"result"}, // "success", "failed", "new"
	)

	SyncLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_last_success_timestamp",
			Help: "Unix timestamp of the last completed sync run",
		},
	)

	// Upstream API
	QuotaUnits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youtube_quota_units_total",
			Help: "Quota units charged per credential",
		},
		[]string{"credential"},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youtube_requests_total",
			Help: "Outbound API requests by outcome",
		},
		[]string{"outcome"}, // "success", "client_error", "server_error", "network_error", "rejected"
	)

	UpstreamRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "youtube_request_retries_total",
			Help: "Retried outbound API attempts",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Inbound API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)
)
