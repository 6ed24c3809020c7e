// Package youtube reads podcast playlists and episode details from the YouTube Data
// API v3. Every call is billed against a credential lease before it is issued.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"podcast_syncer/internal/domain"
)

// Quota cost of each endpoint, in units.
const (
	CostPlaylistLookup int64 = 1
	CostPlaylistItems  int64 = 1
	CostVideosList     int64 = 1
)

const (
	pageSize = 50

	// MinDurationSeconds is the content policy floor; shorter uploads are not episodes.
	MinDurationSeconds = 300
)

// Charger bills quota before a call and returns the credential to issue it with.
type Charger interface {
	Charge(ctx context.Context, units int64) (*domain.Credential, error)
}

// Config holds source configuration.
type Config struct {
	BaseURL    string
	PageDelay  time.Duration
	BatchDelay time.Duration
}

// Client implements the podcast source on top of the YouTube Data API.
type Client struct {
	service *yt.Service
	cfg     Config
	logger  *slog.Logger
}

// New builds a Client. httpClient carries retry and pacing; API keys are attached
// per call so one client serves every credential.
func New(ctx context.Context, httpClient *http.Client, cfg Config, logger *slog.Logger) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}

	service, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	return &Client{
		service: service,
		cfg:     cfg,
		logger:  logger.With("component", "youtube"),
	}, nil
}

func withKey(cred *domain.Credential) googleapi.CallOption {
	return googleapi.QueryParameter("key", cred.APIKey)
}

// classify maps an SDK error onto the upstream error taxonomy.
func classify(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &domain.UpstreamError{Op: op, StatusCode: apiErr.Code, Err: err}
	}
	return &domain.UpstreamError{Op: op, Err: err}
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}

func parseTime(values ...string) time.Time {
	for _, v := range values {
		if v == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
