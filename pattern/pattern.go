package pattern

import (
	"strings"
	"time"

	"github.com/Habibbiswas460/Angel-x-sub003/learning"
)

// Type says which dimension a loss cluster was found on.
type Type int

const (
	Temporal Type = iota
	GreeksSetup
	ExitReasonType
	MarketCondition
	Combination
)

func (t Type) String() string {
	switch t {
	case Temporal:
		return "TEMPORAL"
	case GreeksSetup:
		return "GREEKS_SETUP"
	case ExitReasonType:
		return "EXIT_REASON"
	case MarketCondition:
		return "MARKET_CONDITION"
	default:
		return "COMBINATION"
	}
}

// Severity escalates with occurrence count and loss magnitude.
type Severity int

const (
	Low Severity = iota
	Medium
	High
	Critical
)

func (s Severity) String() string {
	switch s {
	case Medium:
		return "MEDIUM"
	case High:
		return "HIGH"
	case Critical:
		return "CRITICAL"
	default:
		return "LOW"
	}
}

// LossPattern is a detected cluster of losing trades sharing a condition.
type LossPattern struct {
	Type        Type
	Condition   learning.Bucket
	Occurrences int
	TotalLoss   float64 // positive number, magnitude of aggregate loss
	Severity    Severity
}

// Block is the enforcement artifact derived from a HIGH or CRITICAL
// pattern. Keyed by condition; re-detection extends the expiry rather
// than stacking a second block.
type Block struct {
	Condition learning.Bucket `json:"condition"`
	Severity  Severity        `json:"severity"`
	Expiry    time.Time       `json:"expiry"`
	Reason    string          `json:"reason"`
}

// Active reports whether the block still applies at the given instant.
// Expiry is exclusive: a block is inactive strictly after it.
func (b Block) Active(now time.Time) bool {
	return !now.After(b.Expiry)
}

// Remaining is how long the block has left, zero if expired.
func (b Block) Remaining(now time.Time) time.Duration {
	d := b.Expiry.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// typeOf maps a bucket to its pattern dimension by key prefix.
func typeOf(b learning.Bucket) Type {
	s := string(b)
	switch {
	case strings.HasPrefix(s, "time:"):
		return Temporal
	case strings.HasPrefix(s, "greeks:"):
		return GreeksSetup
	case strings.HasPrefix(s, "exit:"):
		return ExitReasonType
	case strings.HasPrefix(s, "vol:"):
		return MarketCondition
	default:
		return Combination
	}
}
