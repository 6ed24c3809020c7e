package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrTransientNetwork  = errors.New("transient network error")
	ErrClientRequest     = errors.New("client request error")
	ErrFeedNotFound      = errors.New("podcast playlist not found")
	ErrNoQualifyingItems = errors.New("no qualifying episodes")

	// ErrQuotaExhausted ends the whole run: nothing further can be billed.
	ErrQuotaExhausted        = errors.New("api quota exhausted")
	ErrNoCredentialAvailable = fmt.Errorf("no credential available: %w", ErrQuotaExhausted)
	ErrCredentialExhausted   = errors.New("credential quota exhausted")

	ErrPersistenceWrite = errors.New("persistence write failed")

	ErrAlreadyRunning   = errors.New("sync already running")
	ErrNotRunning       = errors.New("no sync in progress")
	ErrCancelled        = errors.New("sync cancelled")
	ErrSessionFinalized = errors.New("session already finalized")
	ErrInvalidSettings  = errors.New("invalid run settings")
)

// UpstreamError describes a failed call to the third-party API.
type UpstreamError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() []error {
	return []error{e.class(), e.Err}
}

func (e *UpstreamError) class() error {
	if e.StatusCode >= http.StatusBadRequest && e.StatusCode < http.StatusInternalServerError {
		return ErrClientRequest
	}
	return ErrTransientNetwork
}
