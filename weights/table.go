package weights

import (
	"fmt"
	"sync"
	"time"

	"github.com/Habibbiswas460/Angel-x-sub003/learning"
)

const (
	// MinWeight..MaxWeight bound every rule weight; Neutral is the
	// unadjusted value a missing entry reads as.
	MinWeight = 0.0
	MaxWeight = 2.0
	Neutral   = 1.0
)

// RuleType says which rule family a weight scales.
type RuleType int

const (
	RuleEntry RuleType = iota
	RuleSizing
	RuleExit
)

func (r RuleType) String() string {
	switch r {
	case RuleSizing:
		return "SIZING"
	case RuleExit:
		return "EXIT"
	default:
		return "ENTRY"
	}
}

// Key identifies one weight: a bucket crossed with a rule type.
type Key struct {
	Bucket learning.Bucket `json:"bucket"`
	Rule   RuleType        `json:"rule_type"`
}

func (k Key) String() string {
	return string(k.Bucket) + "/" + k.Rule.String()
}

// RuleWeight is one entry of the weight table.
type RuleWeight struct {
	Key          Key       `json:"key"`
	Value        float64   `json:"value"`
	LastAdjusted time.Time `json:"last_adjusted"`
	AdjustedOn   int       `json:"-"` // adjustments applied on LastAdjusted's day
}

// Adjustment is the append-only audit record of one applied change.
type Adjustment struct {
	ID     string    `json:"id"`
	Key    Key       `json:"key"`
	Delta  float64   `json:"delta"`
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

// Table holds the rule weights. Read is the hot path on every signal
// evaluation; Apply is only ever called from the daily learning cycle
// after guard approval. RWMutex keeps readers off the writer's back.
type Table struct {
	mu      sync.RWMutex
	weights map[Key]RuleWeight
	history []Adjustment
}

func NewTable() *Table {
	return &Table{weights: make(map[Key]RuleWeight)}
}

// Read returns the current weight for a bucket and rule type, or Neutral
// if nothing was ever adjusted. Never blocks on the learning cycle beyond
// the brief read lock.
func (t *Table) Read(bucket learning.Bucket, rule RuleType) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if w, ok := t.weights[Key{Bucket: bucket, Rule: rule}]; ok {
		return w.Value
	}
	return Neutral
}

// Get returns the full entry and whether it exists.
func (t *Table) Get(bucket learning.Bucket, rule RuleType) (RuleWeight, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	w, ok := t.weights[Key{Bucket: bucket, Rule: rule}]
	return w, ok
}

// Apply commits an approved adjustment atomically. The resulting value
// must stay within [MinWeight, MaxWeight]; a delta that would leave the
// range is an error, not a silent clamp, because the adjuster already
// caps its proposals.
func (t *Table) Apply(adj Adjustment) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur, ok := t.weights[adj.Key]
	if !ok {
		cur = RuleWeight{Key: adj.Key, Value: Neutral}
	}

	next := cur.Value + adj.Delta
	if next < MinWeight-1e-9 || next > MaxWeight+1e-9 {
		return fmt.Errorf("adjustment %s drives weight %s to %.2f, outside [%.1f, %.1f]",
			adj.ID, adj.Key, next, MinWeight, MaxWeight)
	}

	if sameDay(cur.LastAdjusted, adj.At) {
		cur.AdjustedOn++
	} else {
		cur.AdjustedOn = 1
	}
	cur.Value = next
	cur.LastAdjusted = adj.At

	t.weights[adj.Key] = cur
	t.history = append(t.history, adj)
	return nil
}

// LastAdjusted returns when the key was last changed, zero if never.
func (t *Table) LastAdjusted(key Key) time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.weights[key].LastAdjusted
}

// AppliedOn counts adjustments applied across the whole table on the
// given day. Feeds the guard's daily-cap check.
func (t *Table) AppliedOn(day time.Time) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	for _, adj := range t.history {
		if sameDay(adj.At, day) {
			n++
		}
	}
	return n
}

// History returns a copy of the audit log.
func (t *Table) History() []Adjustment {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Adjustment, len(t.history))
	copy(out, t.history)
	return out
}

// All returns a copy of every non-neutral entry.
func (t *Table) All() []RuleWeight {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]RuleWeight, 0, len(t.weights))
	for _, w := range t.weights {
		out = append(out, w)
	}
	return out
}

// ResetAll clears every weight back to neutral and wipes nothing from the
// audit log; the reset itself is recorded by the caller.
func (t *Table) ResetAll() {
	t.mu.Lock()
	t.weights = make(map[Key]RuleWeight)
	t.mu.Unlock()
}

// Restore replaces the table contents from a persisted snapshot.
func (t *Table) Restore(entries []RuleWeight, history []Adjustment) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.weights = make(map[Key]RuleWeight, len(entries))
	for _, w := range entries {
		t.weights[w.Key] = w
	}
	t.history = append([]Adjustment(nil), history...)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
