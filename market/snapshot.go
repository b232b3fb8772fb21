package market

import "math"

// TrendDirection is the directional read supplied by the market-data feed.
type TrendDirection int

const (
	TrendFlat TrendDirection = iota
	TrendUp
	TrendDown
)

func (d TrendDirection) String() string {
	switch d {
	case TrendUp:
		return "up"
	case TrendDown:
		return "down"
	default:
		return "flat"
	}
}

// Snapshot is the per-evaluation view of market state handed in by the
// market-data collaborator. It carries no identity between calls.
type Snapshot struct {
	VolatilityProxy float64
	TrendDirection  TrendDirection
	TrendStrength   float64 // 0..1, directional persistence
	EventFlag       bool    // scheduled event (expiry, RBI, budget day)
}

// Valid reports whether the snapshot carries usable numbers. A snapshot
// that fails this check is classified as NORMAL with low confidence
// rather than rejected; the live loop always needs a decision.
func (s Snapshot) Valid() bool {
	if math.IsNaN(s.VolatilityProxy) || math.IsInf(s.VolatilityProxy, 0) || s.VolatilityProxy < 0 {
		return false
	}
	if math.IsNaN(s.TrendStrength) || s.TrendStrength < 0 || s.TrendStrength > 1 {
		return false
	}
	return true
}
