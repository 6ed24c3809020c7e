package credentials

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"podcast_syncer/internal/domain"
)

// Lease is the credential a single run bills against. It is shared by every podcast
// pipeline of the run and rotates to the next credential when the current one runs
// out of quota.
type Lease struct {
	pool   *Pool
	logger *slog.Logger

	mu        sync.Mutex
	current   *domain.Credential
	used      int64
	rotations int
}

// Lease acquires the first credential for a run.
func (p *Pool) Lease(ctx context.Context) (*Lease, error) {
	cred, err := p.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	p.logger.Info("leased credential", "credential", cred.Name, "remaining", cred.Remaining())

	return &Lease{
		pool:    p,
		logger:  p.logger,
		current: cred,
	}, nil
}

// Charge records units against the current credential before the call is made and
// returns the credential to issue the call with. Usage is recorded whether or not the
// call later succeeds. It returns an error wrapping domain.ErrQuotaExhausted once no
// credential in the pool can absorb units.
func (l *Lease) Charge(ctx context.Context, units int64) (*domain.Credential, error) {
	for {
		cred, err := l.credential(ctx, units)
		if err != nil {
			return nil, err
		}

		updated, err := l.pool.RecordUsage(ctx, cred, units)
		if err == nil {
			l.mu.Lock()
			l.used += units
			if l.current != nil && l.current.ID == updated.ID {
				l.current = updated
			}
			l.mu.Unlock()
			return updated, nil
		}

		if !errors.Is(err, domain.ErrCredentialExhausted) {
			return nil, err
		}

		l.retire(cred)
	}
}

func (l *Lease) credential(ctx context.Context, units int64) (*domain.Credential, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current != nil && l.current.HasHeadroom(units) {
		return l.current, nil
	}

	next, err := l.pool.acquire(ctx, units)
	if err != nil {
		return nil, err
	}

	if l.current != nil {
		l.rotations++
		l.logger.Info("rotated credential",
			"from", l.current.Name,
			"to", next.Name,
			"rotations", l.rotations,
		)
	}
	l.current = next

	return next, nil
}

func (l *Lease) retire(cred *domain.Credential) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current != nil && l.current.ID == cred.ID {
		l.logger.Warn("credential exhausted", "credential", cred.Name, "quota_limit", cred.QuotaLimit)
		l.current = nil
	}
}

// Used returns the units charged through this lease.
func (l *Lease) Used() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.used
}

// Current returns the credential calls are currently billed to.
func (l *Lease) Current() *domain.Credential {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return nil
	}
	c := *l.current
	return &c
}
