package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/verilens/verilens/internal/model"
)

const snapshotFile = "last_result.json"

// SnapshotStore persists the most recent resolved result for the
// popup/summary collaborator. Write side only: the popup reads the file.
type SnapshotStore struct {
	dir string
}

// NewSnapshotStore creates a store rooted at dir
func NewSnapshotStore(dir string) *SnapshotStore {
	return &SnapshotStore{dir: dir}
}

// Save overwrites the last-result snapshot
func (s *SnapshotStore) Save(snap model.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, snapshotFile), data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load reads the last-result snapshot, reporting absence without error
func (s *SnapshotStore) Load() (model.Snapshot, bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, snapshotFile))
	if os.IsNotExist(err) {
		return model.Snapshot{}, false, nil
	}
	if err != nil {
		return model.Snapshot{}, false, fmt.Errorf("read snapshot: %w", err)
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.Snapshot{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, true, nil
}
