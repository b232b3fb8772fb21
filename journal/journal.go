// journal/journal.go
package journal

import (
	"time"

	"github.com/Habibbiswas460/Angel-x-sub003/market"
)

// TradeRecord is one closed trade. Immutable once written; the adaptive
// core only ever reads a trailing window of these.
type TradeRecord struct {
	TradeID   string
	EntryTime time.Time
	ExitTime  time.Time
	Won       bool
	PnL       float64

	// Attributes captured at entry, used to derive feature buckets.
	BiasStrength float64
	OIConviction market.OIConviction
	GreeksRegime market.GreeksRegime
	Volatility   market.VolatilityLevel
	ExitReason   market.ExitReason
}

// Reader is the read-only view the learning cycle consumes. The window is
// inclusive at both ends.
type Reader interface {
	ListClosedBetween(start, end time.Time) ([]TradeRecord, error)
}

// Journal is the full trade log owned by the trade-management side.
type Journal interface {
	Reader
	Append(TradeRecord) error
	Close() error
}
