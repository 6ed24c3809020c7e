package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"podcast_syncer/internal/domain"
)

const credentialColumns = "id, name, api_key, quota_used, quota_limit, is_active"

type CredentialStore struct {
	db *sqlx.DB
}

func NewCredentialStore(db *sqlx.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

func (s *CredentialStore) LeastUsed(ctx context.Context, units int64) (*domain.Credential, error) {
	query := `
		SELECT ` + credentialColumns + `
		FROM api_credentials
		WHERE is_active AND quota_used + $1 <= quota_limit
		ORDER BY quota_used ASC, id ASC
		LIMIT 1`

	var cred domain.Credential
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &cred, query, units)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNoCredentialAvailable
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// AddUsage increments quota_used in a single conditional statement so concurrent
// callers can neither lose updates nor push a credential past its ceiling.
func (s *CredentialStore) AddUsage(ctx context.Context, id int64, units int64) (*domain.Credential, error) {
	query := `
		UPDATE api_credentials
		SET quota_used = quota_used + $2,
			updated_at = NOW()
		WHERE id = $1
			AND is_active
			AND quota_used + $2 <= quota_limit
		RETURNING ` + credentialColumns

	var cred domain.Credential
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &cred, query, id, units)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCredentialExhausted
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}
