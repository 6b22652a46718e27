// Package testsupport provides shared scaffolding for package tests:
// temp-dir configurations and store bootstrapping.
package testsupport

import (
	"testing"

	"newsforge/internal/config"
	"newsforge/internal/store"
)

// NewConfig returns a config whose writable paths all live under the test's
// temp directory.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	base := t.TempDir()
	cfg.Paths.StateDir = base + "/state"
	cfg.Paths.ArtifactDir = base + "/artifacts"
	cfg.Paths.LogDir = base + "/logs"
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// MustOpenStore opens a throwaway SQLite store and closes it with the test.
func MustOpenStore(t *testing.T, cfg *config.Config) *store.Store {
	t.Helper()
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return st
}
