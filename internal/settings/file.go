// Package settings persists the operator-editable run settings outside the database.
package settings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"

	"podcast_syncer/internal/domain"
)

// FileStore keeps run settings in a YAML file. Saves replace the file atomically, so a
// reader never sees a half-written file.
type FileStore struct {
	path     string
	defaults domain.RunSettings
	mu       sync.Mutex
}

func NewFileStore(path string, defaults domain.RunSettings) *FileStore {
	return &FileStore{path: path, defaults: defaults}
}

func (s *FileStore) Load(ctx context.Context) (domain.RunSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s.defaults, nil
	}
	if err != nil {
		return domain.RunSettings{}, fmt.Errorf("read settings file: %w", err)
	}

	settings := s.defaults
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return domain.RunSettings{}, fmt.Errorf("parse settings file: %w", err)
	}
	return settings, nil
}

func (s *FileStore) Save(ctx context.Context, settings domain.RunSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := renameio.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}
