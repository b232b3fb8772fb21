package learning

import (
	"github.com/Habibbiswas460/Angel-x-sub003/journal"
	"github.com/Habibbiswas460/Angel-x-sub003/market"
)

// Bucket is a named categorical slice of trade history: the unit both the
// learning engine and the weight table key on. The vocabulary is closed;
// buckets come only from the constructors below plus the sanctioned
// combination list.
type Bucket string

const (
	TimeOpening   Bucket = "time:OPENING"
	TimeMidday    Bucket = "time:MIDDAY"
	TimeAfternoon Bucket = "time:AFTERNOON"

	OIWeak Bucket = "oi:WEAK"
	OIMod  Bucket = "oi:MODERATE"
	OIHigh Bucket = "oi:HIGH_CONVICTION"

	GreeksNeutral   Bucket = "greeks:NEUTRAL"
	GreeksFavorable Bucket = "greeks:FAVORABLE"
	GreeksHostile   Bucket = "greeks:HOSTILE"

	VolLow    Bucket = "vol:LOW"
	VolNormal Bucket = "vol:NORMAL"
	VolHigh   Bucket = "vol:HIGH"

	ExitTarget Bucket = "exit:TARGET"
	ExitStop   Bucket = "exit:STOP"
	ExitTime   Bucket = "exit:TIME"
)

func TimeBucket(s market.TimeOfDay) Bucket {
	switch s {
	case market.SessionOpening:
		return TimeOpening
	case market.SessionAfternoon:
		return TimeAfternoon
	default:
		return TimeMidday
	}
}

func OIBucket(c market.OIConviction) Bucket {
	switch c {
	case market.OIModerate:
		return OIMod
	case market.OIHighConviction:
		return OIHigh
	default:
		return OIWeak
	}
}

func GreeksBucket(g market.GreeksRegime) Bucket {
	switch g {
	case market.GreeksFavorable:
		return GreeksFavorable
	case market.GreeksHostile:
		return GreeksHostile
	default:
		return GreeksNeutral
	}
}

func VolBucket(v market.VolatilityLevel) Bucket {
	switch v {
	case market.VolLow:
		return VolLow
	case market.VolHigh:
		return VolHigh
	default:
		return VolNormal
	}
}

func ExitBucket(e market.ExitReason) Bucket {
	switch e {
	case market.ExitStop:
		return ExitStop
	case market.ExitTime:
		return ExitTime
	default:
		return ExitTarget
	}
}

// Combo is a sanctioned pairwise combination of dimension buckets. Combos
// are the only multi-dimension keys; anything else would let the bucket
// vocabulary grow without bound.
type Combo struct {
	Bucket Bucket
	A, B   Bucket
}

// Combos is the closed list of combination buckets.
var Combos = []Combo{
	{Bucket: "combo:OPENING+HIGH_VOL", A: TimeOpening, B: VolHigh},
	{Bucket: "combo:AFTERNOON+HOSTILE_GREEKS", A: TimeAfternoon, B: GreeksHostile},
	{Bucket: "combo:OPENING+WEAK_OI", A: TimeOpening, B: OIWeak},
	{Bucket: "combo:HIGH_VOL+STOP_EXIT", A: VolHigh, B: ExitStop},
}

// SignalBuckets derives the buckets a candidate signal belongs to, one per
// entry-time dimension. Exit reason is unknowable before the trade closes,
// so signals never map to exit or exit-combo buckets.
func SignalBuckets(sig market.SignalAttributes) []Bucket {
	base := []Bucket{
		TimeBucket(market.SessionOf(sig.Timestamp)),
		OIBucket(sig.OIConviction),
		GreeksBucket(sig.GreeksRegime),
		VolBucket(sig.Volatility),
	}
	return appendCombos(base)
}

// TradeBuckets derives the buckets a closed trade belongs to: every
// entry-time dimension, the exit reason, and any sanctioned combos.
func TradeBuckets(rec journal.TradeRecord) []Bucket {
	base := []Bucket{
		TimeBucket(market.SessionOf(rec.EntryTime)),
		OIBucket(rec.OIConviction),
		GreeksBucket(rec.GreeksRegime),
		VolBucket(rec.Volatility),
		ExitBucket(rec.ExitReason),
	}
	return appendCombos(base)
}

func appendCombos(base []Bucket) []Bucket {
	member := make(map[Bucket]bool, len(base))
	for _, b := range base {
		member[b] = true
	}
	out := base
	for _, c := range Combos {
		if member[c.A] && member[c.B] {
			out = append(out, c.Bucket)
		}
	}
	return out
}
