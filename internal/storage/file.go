// Package storage mirrors each successful snapshot to disk as a readable
// JSON file. The process never reads it back; it exists for external
// consumers of the container volume.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Ratepiratepi/webfleet-gps-api/internal/domain/models"
)

const snapshotFile = "positions_latest.json"

type SnapshotFile struct {
	dir string
}

// NewSnapshotFile ensures the data directory exists and returns a writer
// targeting positions_latest.json inside it.
func NewSnapshotFile(dir string) (*SnapshotFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &SnapshotFile{dir: dir}, nil
}

// Write replaces the snapshot file atomically: the JSON is staged in a
// temp file and renamed over the target, so readers never see a partial
// write.
func (f *SnapshotFile) Write(view models.SnapshotView) error {
	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, snapshotFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp snapshot: %w", err)
	}

	target := filepath.Join(f.dir, snapshotFile)
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot file: %w", err)
	}

	return nil
}

// Path returns the location of the snapshot file.
func (f *SnapshotFile) Path() string {
	return filepath.Join(f.dir, snapshotFile)
}
