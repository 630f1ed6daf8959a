package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"filedeck/pkg/types"
)

func TestPreferencesStore_LoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	store, err := New(path)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	prefs, err := store.Load()
	if err != nil {
		t.Fatalf("Failed to load preferences: %v", err)
	}

	if prefs.Theme != "light" || prefs.FontSize != 16 {
		t.Errorf("Expected light/16 defaults, got %+v", prefs)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected preferences file to be created: %v", err)
	}

	var onDisk types.Preferences
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("Preferences file is not valid JSON: %v", err)
	}
	if onDisk != *prefs {
		t.Errorf("Expected %+v on disk, got %+v", *prefs, onDisk)
	}
}

func TestPreferencesStore_LoadReplacesCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write corrupt file: %v", err)
	}

	store, err := New(path)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	prefs, err := store.Load()
	if err != nil {
		t.Fatalf("Failed to load preferences: %v", err)
	}
	if *prefs != *DefaultPreferences() {
		t.Errorf("Expected defaults, got %+v", prefs)
	}

	data, _ := os.ReadFile(path)
	if !json.Valid(data) {
		t.Errorf("Expected corrupt document to be rewritten, got %q", data)
	}
}

func TestPreferencesStore_LoadPassesPartialDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"theme":"dark"}`), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	store, _ := New(path)
	prefs, err := store.Load()
	if err != nil {
		t.Fatalf("Failed to load preferences: %v", err)
	}

	if prefs.Theme != "dark" {
		t.Errorf("Expected dark theme, got %s", prefs.Theme)
	}
	if prefs.FontSize != 0 {
		t.Errorf("Expected missing fontSize to stay zero, got %d", prefs.FontSize)
	}
}

func TestPreferencesStore_SaveThenLoad(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "prefs", "config.json"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	want := &types.Preferences{Theme: "dark", FontSize: 22}
	if err := store.Save(want); err != nil {
		t.Fatalf("Failed to save preferences: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Failed to load preferences: %v", err)
	}
	if *got != *want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}

	entries, _ := os.ReadDir(filepath.Dir(store.Path()))
	if len(entries) != 1 {
		t.Errorf("Expected only the preferences file, found %d entries", len(entries))
	}
}

func TestNew_EmptyPath(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Error("Expected error for empty preferences path")
	}
}
