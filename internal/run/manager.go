// Package run manages per-run policy snapshots, the append-only run ledger,
// and run metadata for pipeline auditability.
//
// Each run owns a directory under the runs root, keyed by its run ID. The
// snapshot is a materialized, timestamped copy of the active document
// versions at capture time; it embeds the data rather than referencing the
// registry. The ledger is the only append-only resource and is always
// opened in append mode. Metadata is mutated exactly twice: written at run
// start and rewritten once at finalize.
package run

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/parchment/internal/domain/document"
	"github.com/zjrosen/parchment/internal/log"
	"github.com/zjrosen/parchment/internal/versions"
)

// Artifact file names within a run directory.
const (
	SnapshotFile = "policy_snapshot.json"
	LedgerFile   = "ledger.jsonl"
	MetadataFile = "metadata.json"
)

// EventRunComplete tags the finalize event in the ledger.
const EventRunComplete = "run_complete"

// Snapshot is the immutable point-in-time capture of active document
// versions for one run.
type Snapshot struct {
	RunID          string                      `json:"run_id"`
	Timestamp      string                      `json:"timestamp"`
	Event          string                      `json:"event"`
	ActivePolicies map[string]string           `json:"active_policies"`
	PolicyCount    int                         `json:"policy_count"`
	FullDetails    map[string]document.Version `json:"full_details"`
}

// Metadata is the per-run record of start/end times and the policy set in
// force. EndTime and Success appear only after finalize.
type Metadata struct {
	RunID           string            `json:"run_id"`
	StartTime       string            `json:"start_time"`
	PoliciesInForce map[string]string `json:"policies_in_force"`
	PolicyCount     int               `json:"policy_count"`
	EndTime         string            `json:"end_time,omitempty"`
	Success         *bool             `json:"success,omitempty"`
}

// completionEvent is the ledger line appended at finalize.
type completionEvent struct {
	RunID     string `json:"run_id"`
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Success   bool   `json:"success"`
}

// Manager owns one run's directory and its artifacts.
// Two processes sharing a run ID concurrently is out of contract.
type Manager struct {
	runID    string
	repoRoot string
	runDir   string
	scanOpts []versions.Option
}

// NewManager creates (if needed) the run directory under runsDir and
// returns a manager for runID. scanOpts configure the snapshot scans.
func NewManager(runID, repoRoot, runsDir string, scanOpts ...versions.Option) (*Manager, error) {
	if runID == "" {
		return nil, fmt.Errorf("run id cannot be empty")
	}
	runDir := filepath.Join(runsDir, runID)
	if err := os.MkdirAll(runDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating run directory: %w", err)
	}
	return &Manager{
		runID:    runID,
		repoRoot: repoRoot,
		runDir:   runDir,
		scanOpts: scanOpts,
	}, nil
}

// RunID returns the manager's run identifier.
func (m *Manager) RunID() string { return m.runID }

// RunDir returns the run's storage directory.
func (m *Manager) RunDir() string { return m.runDir }

// CaptureSnapshot scans the active documents and persists the snapshot as
// this run's policy_snapshot.json. A second capture overwrites the first;
// no conflict detection happens here, unlike the registry builder.
func (m *Manager) CaptureSnapshot() (*Snapshot, error) {
	opts := append([]versions.Option{}, m.scanOpts...)
	opts = append(opts, versions.WithStatusFilter(document.StatusActive))
	extractor := versions.NewExtractor(m.repoRoot, opts...)
	count := extractor.Scan()

	snap := &Snapshot{
		RunID:          m.runID,
		Timestamp:      utcNow(),
		Event:          versions.EventPolicySnapshot,
		ActivePolicies: extractor.Simple(),
		PolicyCount:    count,
		FullDetails:    extractor.Detail(),
	}

	if err := writeJSON(filepath.Join(m.runDir, SnapshotFile), snap); err != nil {
		return nil, fmt.Errorf("writing snapshot: %w", err)
	}

	log.Info(log.CatRun, "Captured policy snapshot", "run_id", m.runID, "policies", count)
	return snap, nil
}

// AppendLedger appends one event line to the run's ledger. The ledger file
// is opened in append mode so prior entries are never truncated.
func (m *Manager) AppendLedger(event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling ledger event: %w", err)
	}

	path := filepath.Join(m.runDir, LedgerFile)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // G302,G304: run-scoped artifact
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("appending ledger event: %w", err)
	}

	log.Debug(log.CatLedger, "Appended ledger event", "run_id", m.runID)
	return nil
}

// Initialize captures the policy snapshot, appends it to the ledger, and
// writes the run's metadata. Returns the metadata and snapshot.
func (m *Manager) Initialize() (*Metadata, *Snapshot, error) {
	snap, err := m.CaptureSnapshot()
	if err != nil {
		return nil, nil, err
	}

	if err := m.AppendLedger(snap); err != nil {
		return nil, nil, err
	}

	meta := &Metadata{
		RunID:           m.runID,
		StartTime:       utcNow(),
		PoliciesInForce: snap.ActivePolicies,
		PolicyCount:     snap.PolicyCount,
	}
	if err := writeJSON(filepath.Join(m.runDir, MetadataFile), meta); err != nil {
		return nil, nil, fmt.Errorf("writing run metadata: %w", err)
	}

	log.Info(log.CatRun, "Run initialized", "run_id", m.runID, "policies", snap.PolicyCount)
	return meta, snap, nil
}

// Finalize stamps end time and the success flag into the run's metadata
// (the only allowed metadata mutation) and appends a completion event to
// the ledger.
func (m *Manager) Finalize(success bool) (*Metadata, error) {
	path := filepath.Join(m.runDir, MetadataFile)
	data, err := os.ReadFile(path) //nolint:gosec // G304: run-scoped artifact
	if err != nil {
		return nil, fmt.Errorf("reading run metadata: %w", err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing run metadata: %w", err)
	}

	meta.EndTime = utcNow()
	meta.Success = &success
	if err := writeJSON(path, &meta); err != nil {
		return nil, fmt.Errorf("rewriting run metadata: %w", err)
	}

	if err := m.AppendLedger(completionEvent{
		RunID:     m.runID,
		Timestamp: meta.EndTime,
		Event:     EventRunComplete,
		Success:   success,
	}); err != nil {
		return nil, err
	}

	log.Info(log.CatRun, "Run finalized", "run_id", m.runID, "success", success)
	return &meta, nil
}

func utcNow() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644) //nolint:gosec // G306: run artifacts are shared with pipeline tooling
}
