package guard

import (
	"github.com/Habibbiswas460/Angel-x-sub003/journal"
	"github.com/Habibbiswas460/Angel-x-sub003/learning"
	"github.com/Habibbiswas460/Angel-x-sub003/weights"
)

// ShadowOutcome is the result of replaying a candidate weight change
// against the historical window without touching real state.
type ShadowOutcome struct {
	TradesReplayed  int
	SimulatedImpact float64 // pnl delta had the new weight been in force
}

// Acceptable reports whether the dry run supports applying the change:
// over the window it must not have cost money.
func (o ShadowOutcome) Acceptable() bool {
	return o.SimulatedImpact >= 0
}

// ShadowTest is a pure function: (change, window) -> outcome. The weight
// scales exposure on its bucket, so the counterfactual pnl impact of the
// change over the window is sum(pnl) * delta for trades in that bucket.
// Amplifying a profitable bucket or restricting a losing one comes out
// positive; the inverse comes out negative and fails acceptance.
func ShadowTest(ch weights.Change, window []journal.TradeRecord) ShadowOutcome {
	var out ShadowOutcome
	for _, rec := range window {
		if !inBucket(rec, ch.Key.Bucket) {
			continue
		}
		out.TradesReplayed++
		out.SimulatedImpact += rec.PnL * ch.Delta
	}
	return out
}

func inBucket(rec journal.TradeRecord, b learning.Bucket) bool {
	for _, tb := range learning.TradeBuckets(rec) {
		if tb == b {
			return true
		}
	}
	return false
}
