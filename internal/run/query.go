package run

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zjrosen/parchment/internal/log"
)

// LoadSnapshot locates the persisted snapshot for runID under runsDir.
// An absent snapshot is a normal negative result: (nil, false, nil).
func LoadSnapshot(runsDir, runID string) (*Snapshot, bool, error) {
	path := filepath.Join(runsDir, runID, SnapshotFile)
	data, err := os.ReadFile(path) //nolint:gosec // G304: run-scoped artifact
	if os.IsNotExist(err) {
		log.Debug(log.CatRun, "No snapshot for run", "run_id", runID)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, fmt.Errorf("parsing snapshot: %w", err)
	}
	return &snap, true, nil
}

// LoadMetadata reads the run's metadata file.
// An absent file is (nil, false, nil), mirroring LoadSnapshot.
func LoadMetadata(runsDir, runID string) (*Metadata, bool, error) {
	path := filepath.Join(runsDir, runID, MetadataFile)
	data, err := os.ReadFile(path) //nolint:gosec // G304: run-scoped artifact
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading run metadata: %w", err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, false, fmt.Errorf("parsing run metadata: %w", err)
	}
	return &meta, true, nil
}

// CheckoutTag is the reconstructible tag naming the exact version of a
// document that was active, e.g. docs-policy.retention-2.1.0.
func CheckoutTag(docKey, semver string) string {
	return fmt.Sprintf("docs-%s-%s", docKey, semver)
}
