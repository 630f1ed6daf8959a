package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"filedeck/pkg/types"
)

// DefaultPreferences is written whenever the document is missing or unreadable
func DefaultPreferences() *types.Preferences {
	return &types.Preferences{
		Theme:    "light",
		FontSize: 16,
	}
}

// PreferencesStore keeps the display preferences in a single JSON document.
// There is one writer at a time in practice; concurrent saves resolve to the
// last one.
type PreferencesStore struct {
	path string
}

func New(path string) (*PreferencesStore, error) {
	if path == "" {
		return nil, fmt.Errorf("preferences path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create preferences directory: %w", err)
	}
	return &PreferencesStore{path: path}, nil
}

// Path returns the location of the document
func (s *PreferencesStore) Path() string {
	return s.path
}

// Load reads the preferences. A missing or unparsable document is replaced
// by the defaults, which are returned even when writing them fails.
func (s *PreferencesStore) Load() (*types.Preferences, error) {
	data, err := os.ReadFile(s.path)
	if err == nil {
		prefs := &types.Preferences{}
		if json.Unmarshal(data, prefs) == nil {
			return prefs, nil
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	prefs := DefaultPreferences()
	if err := s.Save(prefs); err != nil {
		return prefs, err
	}
	return prefs, nil
}

// Save replaces the document. The new content is written to a temporary
// file in the same directory and renamed over the old one.
func (s *PreferencesStore) Save(prefs *types.Preferences) error {
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".preferences-*")
	if err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace preferences: %w", err)
	}
	return nil
}
