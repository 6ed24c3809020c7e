package domain

import (
	"fmt"
	"time"
)

type Mode string

const (
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
)

const (
	MaxBatchSize   = 50
	MaxConcurrency = 8
)

// RunSettings is the persisted, operator-editable run configuration.
type RunSettings struct {
	Enabled     bool   `yaml:"enabled" json:"enabled" db:"enabled"`
	TimeOfDay   string `yaml:"time" json:"time" db:"time_of_day"`
	Mode        Mode   `yaml:"mode" json:"mode" db:"mode"`
	BatchSize   int    `yaml:"batch_size" json:"batchSize" db:"batch_size"`
	Concurrency int    `yaml:"concurrency" json:"concurrency" db:"concurrency"`
}

// DefaultRunSettings is used when nothing has been persisted yet.
func DefaultRunSettings() RunSettings {
	return RunSettings{
		Enabled:     false,
		TimeOfDay:   "03:00",
		Mode:        ModeLocal,
		BatchSize:   0,
		Concurrency: 0,
	}
}

// Clock parses TimeOfDay into hour and minute.
func (s RunSettings) Clock() (hour, minute int, err error) {
	t, err := time.Parse("15:04", s.TimeOfDay)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: time %q: %v", ErrInvalidSettings, s.TimeOfDay, err)
	}
	return t.Hour(), t.Minute(), nil
}

// Validate checks the settings independently of how they were supplied.
func (s RunSettings) Validate() error {
	if _, _, err := s.Clock(); err != nil {
		return err
	}
	if s.Mode != ModeLocal && s.Mode != ModeRemote {
		return fmt.Errorf("%w: mode %q", ErrInvalidSettings, s.Mode)
	}
	if s.BatchSize < 0 || s.BatchSize > MaxBatchSize {
		return fmt.Errorf("%w: batch size %d", ErrInvalidSettings, s.BatchSize)
	}
	if s.Concurrency < 0 || s.Concurrency > MaxConcurrency {
		return fmt.Errorf("%w: concurrency %d", ErrInvalidSettings, s.Concurrency)
	}
	return nil
}
