// Package credentials selects API keys from the pool and records quota usage.
package credentials

//go:generate mockgen -source=pool.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"fmt"
	"log/slog"

	"podcast_syncer/internal/domain"
	"podcast_syncer/internal/metrics"
)

// Store is the persisted credential ledger.
type Store interface {
	// LeastUsed returns the active credential with the lowest quota_used that can
	// still absorb units, or domain.ErrNoCredentialAvailable.
	LeastUsed(ctx context.Context, units int64) (*domain.Credential, error)
	// AddUsage atomically adds units to quota_used if the ceiling allows it and
	// returns the updated row, or domain.ErrCredentialExhausted.
	AddUsage(ctx context.Context, id int64, units int64) (*domain.Credential, error)
}

type Pool struct {
	store  Store
	logger *slog.Logger
}

func NewPool(store Store, logger *slog.Logger) *Pool {
	return &Pool{
		store:  store,
		logger: logger.With("component", "credentials"),
	}
}

// Acquire returns the least used credential with headroom for at least one unit.
func (p *Pool) Acquire(ctx context.Context) (*domain.Credential, error) {
	return p.acquire(ctx, 1)
}

func (p *Pool) acquire(ctx context.Context, units int64) (*domain.Credential, error) {
	cred, err := p.store.LeastUsed(ctx, units)
	if err != nil {
		return nil, fmt.Errorf("acquire credential: %w", err)
	}
	return cred, nil
}

// RecordUsage bills units to cred in one conditional update.
func (p *Pool) RecordUsage(ctx context.Context, cred *domain.Credential, units int64) (*domain.Credential, error) {
	updated, err := p.store.AddUsage(ctx, cred.ID, units)
	if err != nil {
		return nil, fmt.Errorf("record usage for credential %d: %w", cred.ID, err)
	}

	metrics.QuotaUnits.WithLabelValues(cred.Name).Add(float64(units))

	return updated, nil
}
