package weights

import (
	"fmt"
	"time"

	"github.com/Habibbiswas460/Angel-x-sub003/learning"
)

// Change is a proposed weight delta derived from an insight. It is not an
// Adjustment yet; only the safety guard can promote it to one.
type Change struct {
	Key        Key
	Delta      float64
	Reason     string
	SampleSize int
}

// AdjustStep is the per-insight delta magnitude.
const AdjustStep = 0.3

// Adjuster turns learning insights into bounded weight-change proposals
// against the current table state. maxDelta is the guard's per-change
// ceiling; proposals never exceed it.
type Adjuster struct {
	table    *Table
	maxDelta float64
}

func NewAdjuster(table *Table, maxDelta float64) *Adjuster {
	return &Adjuster{table: table, maxDelta: maxDelta}
}

// Propose maps an insight to a Change: AMPLIFY steps up, RESTRICT steps
// down, BLOCK drives the weight toward zero by at most maxDelta per
// cycle. Deltas are capped so the resulting weight stays in range.
// Returns false when the current weight already sits at the target
// (nothing worth proposing).
func (a *Adjuster) Propose(ins learning.Insight, now time.Time) (Change, bool) {
	// Entry admission is what the learning loop tunes; sizing and exit
	// weights stay operator-controlled.
	key := Key{Bucket: ins.Bucket, Rule: RuleEntry}
	cur := a.table.Read(ins.Bucket, RuleEntry)

	var delta float64
	switch ins.Action {
	case learning.Amplify:
		delta = AdjustStep
		if cur+delta > MaxWeight {
			delta = MaxWeight - cur
		}
	case learning.Restrict:
		delta = -AdjustStep
		if cur+delta < MinWeight {
			delta = MinWeight - cur
		}
	case learning.Block:
		// Toxic buckets head for zero, but one capped step at a time so
		// the change survives review.
		delta = MinWeight - cur
		if -delta > a.maxDelta {
			delta = -a.maxDelta
		}
	}

	if delta == 0 {
		return Change{}, false
	}

	return Change{
		Key:        key,
		Delta:      delta,
		SampleSize: ins.SampleSize,
		Reason: fmt.Sprintf("%s on %s: %.0f%% win rate over %d trades",
			ins.Action, ins.Bucket, ins.WinRate*100, ins.SampleSize),
	}, true
}
