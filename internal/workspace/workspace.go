package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sportsdataverse/sdvsite/internal/logfields"
)

const stagingPattern = ".sdvsite-staging-*"

// Manager owns one staging directory.
type Manager struct {
	baseDir string
	dir     string
}

// NewManager creates a manager whose staging directory will live in baseDir.
// baseDir must be on the same filesystem as the publish target.
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir}
}

// Create makes the staging directory.
func (m *Manager) Create() error {
	if err := os.MkdirAll(m.baseDir, 0o750); err != nil {
		return fmt.Errorf("failed to create workspace base directory: %w", err)
	}
	dir, err := os.MkdirTemp(m.baseDir, stagingPattern)
	if err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}
	m.dir = dir
	slog.Debug("Created workspace", logfields.Path(dir))
	return nil
}

// GetPath returns the staging directory, or "" before Create.
func (m *Manager) GetPath() string {
	return m.dir
}

// Publish replaces target with the staging directory. After a successful
// Publish the manager no longer owns a directory and Cleanup is a no-op.
func (m *Manager) Publish(target string) error {
	if m.dir == "" {
		return fmt.Errorf("workspace not created")
	}
	if err := os.RemoveAll(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove previous output: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return fmt.Errorf("failed to create output parent: %w", err)
	}
	if err := os.Rename(m.dir, target); err != nil {
		return fmt.Errorf("failed to publish workspace: %w", err)
	}
	slog.Debug("Published workspace", logfields.Path(target))
	m.dir = ""
	return nil
}

// Cleanup removes the staging directory if it still exists.
func (m *Manager) Cleanup() error {
	if m.dir == "" {
		return nil
	}
	if err := os.RemoveAll(m.dir); err != nil {
		return fmt.Errorf("failed to cleanup workspace: %w", err)
	}
	slog.Debug("Cleaned up workspace", logfields.Path(m.dir))
	m.dir = ""
	return nil
}
