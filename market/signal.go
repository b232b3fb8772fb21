package market

import (
	"math"
	"time"
)

// OIConviction grades how strongly open-interest buildup backs a signal.
type OIConviction int

const (
	OIWeak OIConviction = iota
	OIModerate
	OIHighConviction
)

func (c OIConviction) String() string {
	switch c {
	case OIModerate:
		return "MODERATE"
	case OIHighConviction:
		return "HIGH_CONVICTION"
	default:
		return "WEAK"
	}
}

// GreeksRegime summarizes the option-Greeks setup behind a signal.
type GreeksRegime int

const (
	GreeksNeutral GreeksRegime = iota
	GreeksFavorable
	GreeksHostile
)

func (g GreeksRegime) String() string {
	switch g {
	case GreeksFavorable:
		return "FAVORABLE"
	case GreeksHostile:
		return "HOSTILE"
	default:
		return "NEUTRAL"
	}
}

// VolatilityLevel is the discrete volatility bucket the signal was taken in.
type VolatilityLevel int

const (
	VolNormal VolatilityLevel = iota
	VolLow
	VolHigh
)

func (v VolatilityLevel) String() string {
	switch v {
	case VolLow:
		return "LOW"
	case VolHigh:
		return "HIGH"
	default:
		return "NORMAL"
	}
}

// ExitReason records why a position was closed.
type ExitReason int

const (
	ExitTarget ExitReason = iota
	ExitStop
	ExitTime
)

func (e ExitReason) String() string {
	switch e {
	case ExitStop:
		return "STOP"
	case ExitTime:
		return "TIME"
	default:
		return "TARGET"
	}
}

// TimeOfDay is the session slice a timestamp falls in. Sessions follow the
// NSE cash session (09:15-15:30 IST); timestamps are bucketed by local
// clock time so the caller controls the zone.
type TimeOfDay int

const (
	SessionOpening TimeOfDay = iota // first hour
	SessionMidday
	SessionAfternoon // last 90 minutes
)

func (t TimeOfDay) String() string {
	switch t {
	case SessionOpening:
		return "OPENING"
	case SessionAfternoon:
		return "AFTERNOON"
	default:
		return "MIDDAY"
	}
}

// SessionOf buckets a timestamp into a session slice.
func SessionOf(ts time.Time) TimeOfDay {
	mins := ts.Hour()*60 + ts.Minute()
	switch {
	case mins < 10*60+15: // before 10:15
		return SessionOpening
	case mins >= 14*60: // 14:00 onward
		return SessionAfternoon
	default:
		return SessionMidday
	}
}

// SignalAttributes is what the entry-signal collaborator hands in per
// candidate trade. These attributes, not prices, drive bucket derivation.
type SignalAttributes struct {
	Timestamp    time.Time
	BiasStrength float64 // -1..1, signed directional bias
	OIConviction OIConviction
	GreeksRegime GreeksRegime
	Volatility   VolatilityLevel
}

// Valid mirrors Snapshot.Valid: a bad signal degrades to the conservative
// path instead of erroring.
func (s SignalAttributes) Valid() bool {
	if s.Timestamp.IsZero() {
		return false
	}
	if math.IsNaN(s.BiasStrength) || s.BiasStrength < -1 || s.BiasStrength > 1 {
		return false
	}
	return true
}
