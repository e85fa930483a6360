package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"orgd/internal/log"
)

// Store is the persistence collaborator the core calls into. Load produces a
// usable configuration even when the backing file is absent or corrupt.
type Store interface {
	Load() (*Config, error)
	Save(*Config) error
}

// FileStore persists the configuration as a JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns the standard configuration location
// (~/.config/orgd/config.json).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "orgd", "config.json"), nil
}

// Path returns the file path the store reads and writes.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the configuration file. A missing file yields the default
// configuration, written back to disk. A corrupt or invalid file also falls
// back to defaults, with a warning, so the organizer always starts.
func (s *FileStore) Load() (*Config, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := New()
			if saveErr := s.Save(cfg); saveErr != nil {
				return nil, fmt.Errorf("writing default config: %w", saveErr)
			}
			log.LogWithFields(log.F("path", s.path)).Info("Created default configuration")
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.LogWithFields(log.F("path", s.path), log.F("error", err)).
			Warn("Configuration file is corrupt, using defaults")
		return New(), nil
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		log.LogWithFields(log.F("path", s.path), log.F("error", err)).
			Warn("Configuration file is invalid, using defaults")
		return New(), nil
	}
	return &cfg, nil
}

// Save writes the configuration as indented JSON, creating the parent
// directory if needed. The file is written to a temp name and renamed so a
// crash mid-write never leaves a truncated config behind.
func (s *FileStore) Save(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing config file: %w", err)
	}
	return nil
}
