// Package settings persists the overlay geometry and toggles between runs.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/genricoloni/lyrical/internal/geometry"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// State is the persisted part of the host state
type State struct {
	Bounds          geometry.Rect `yaml:"bounds"`
	Locked          bool          `yaml:"locked"`
	ShowTranslation bool          `yaml:"show_translation"`
}

// Store reads and writes State as YAML
type Store struct {
	logger   *zap.Logger
	path     string
	defaults State
}

// NewStore creates a store at path. defaults is returned when no file exists yet.
func NewStore(logger *zap.Logger, path string, defaults State) *Store {
	return &Store{logger: logger, path: path, defaults: defaults}
}

// Load returns the saved state, or the defaults when the file is missing.
// A corrupt file is reported and the defaults are returned alongside the error.
func (s *Store) Load() (State, error) {
	if s.path == "" {
		return s.defaults, nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Info("No saved overlay state, using defaults", zap.String("path", s.path))
		return s.defaults, nil
	}
	if err != nil {
		return s.defaults, fmt.Errorf("failed to read state file: %w", err)
	}

	st := s.defaults
	if err := yaml.Unmarshal(data, &st); err != nil {
		return s.defaults, fmt.Errorf("failed to parse state file: %w", err)
	}
	if st.Bounds.Width <= 0 || st.Bounds.Height <= 0 {
		st.Bounds = s.defaults.Bounds
	}

	s.logger.Debug("Overlay state loaded",
		zap.String("path", s.path),
		zap.Int("x", st.Bounds.X),
		zap.Int("y", st.Bounds.Y),
		zap.Bool("locked", st.Locked))
	return st, nil
}

// Save writes st to disk, creating the parent directory when needed
func (s *Store) Save(st State) error {
	if s.path == "" {
		return nil
	}

	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	s.logger.Debug("Overlay state saved", zap.String("path", s.path))
	return nil
}
