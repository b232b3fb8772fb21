package adaptive

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Habibbiswas460/Angel-x-sub003/guard"
	"github.com/Habibbiswas460/Angel-x-sub003/pattern"
	"github.com/Habibbiswas460/Angel-x-sub003/weights"
)

// ErrCorruptSnapshot marks a persisted snapshot that failed validation.
// Restoring from corrupted adaptive state risks wrong trading decisions,
// so loading fails fast; the operator decides whether to start neutral.
var ErrCorruptSnapshot = errors.New("corrupt state snapshot")

// Snapshot is the only on-disk format this core owns: the mutable state
// bundle (weights, active blocks, proposal history) as one JSON document.
type Snapshot struct {
	SavedAt   time.Time            `json:"saved_at"`
	Weights   []weights.RuleWeight `json:"weights"`
	History   []weights.Adjustment `json:"history"`
	Blocks    []pattern.Block      `json:"blocks"`
	Proposals []*guard.Proposal    `json:"proposals"`
}

func (s *Snapshot) validate() error {
	for _, w := range s.Weights {
		if w.Key.Bucket == "" {
			return fmt.Errorf("%w: weight entry with empty bucket", ErrCorruptSnapshot)
		}
		if w.Value < weights.MinWeight || w.Value > weights.MaxWeight {
			return fmt.Errorf("%w: weight %s=%.3f outside [%.1f, %.1f]",
				ErrCorruptSnapshot, w.Key, w.Value, weights.MinWeight, weights.MaxWeight)
		}
	}
	for _, b := range s.Blocks {
		if b.Condition == "" {
			return fmt.Errorf("%w: block with empty condition", ErrCorruptSnapshot)
		}
		if b.Expiry.IsZero() {
			return fmt.Errorf("%w: block on %s has no expiry", ErrCorruptSnapshot, b.Condition)
		}
	}
	return nil
}

// ExportState captures the current state bundle.
func (c *Controller) ExportState(now time.Time) Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked(now)
}

// snapshotLocked builds the snapshot document. Callers hold c.mu.
func (c *Controller) snapshotLocked(now time.Time) Snapshot {
	proposals := make([]*guard.Proposal, len(c.proposals))
	copy(proposals, c.proposals)

	return Snapshot{
		SavedAt:   now,
		Weights:   c.table.All(),
		History:   c.table.History(),
		Blocks:    c.detector.ActiveBlocks(now),
		Proposals: proposals,
	}
}

// ImportState replaces the state bundle from a snapshot, validating it
// first. On error the controller keeps its current state.
func (c *Controller) ImportState(snap Snapshot) error {
	if err := snap.validate(); err != nil {
		return err
	}

	c.mu.Lock()
	c.table.Restore(snap.Weights, snap.History)
	c.detector.Restore(snap.Blocks)
	c.proposals = snap.Proposals
	c.mu.Unlock()

	c.log.Info().
		Int("weights", len(snap.Weights)).
		Int("blocks", len(snap.Blocks)).
		Int("proposals", len(snap.Proposals)).
		Msg("state restored from snapshot")
	return nil
}

// SaveState writes the snapshot document to disk. The state is captured
// under the read lock; the disk write happens outside it.
func (c *Controller) SaveState(path string, now time.Time) error {
	c.mu.RLock()
	snap := c.snapshotLocked(now)
	c.mu.RUnlock()

	return writeSnapshot(path, snap)
}

func writeSnapshot(path string, snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// LoadState reads and validates a snapshot document, then installs it.
func (c *Controller) LoadState(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	return c.ImportState(snap)
}
