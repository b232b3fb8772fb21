package pattern

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Habibbiswas460/Angel-x-sub003/journal"
	"github.com/Habibbiswas460/Angel-x-sub003/learning"
	"github.com/Habibbiswas460/Angel-x-sub003/market"
)

func openingLoss(i int, pnl float64) journal.TradeRecord {
	entry := time.Date(2026, 2, 2, 9, 20, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute)
	return journal.TradeRecord{
		TradeID:      "L" + string(rune('0'+i)),
		EntryTime:    entry,
		ExitTime:     entry.Add(15 * time.Minute),
		Won:          false,
		PnL:          pnl,
		OIConviction: market.OIModerate,
		GreeksRegime: market.GreeksNeutral,
		Volatility:   market.VolNormal,
		ExitReason:   market.ExitStop,
	}
}

func TestScanCreatesHighBlockFromOpeningCluster(t *testing.T) {
	t.Parallel()

	d := NewDetector(DefaultConfig(), zerolog.Nop())
	now := time.Date(2026, 2, 2, 16, 0, 0, 0, time.UTC)

	// Six losers at the open, 600 aggregate loss: count clears the HIGH
	// rung even though the loss stays below the HIGH loss rung.
	var trades []journal.TradeRecord
	for i := 0; i < 6; i++ {
		trades = append(trades, openingLoss(i, -100))
	}

	patterns := d.Scan(now, trades)

	var opening *LossPattern
	for i := range patterns {
		if patterns[i].Condition == learning.TimeOpening {
			opening = &patterns[i]
		}
	}
	require.NotNil(t, opening)
	assert.Equal(t, Temporal, opening.Type)
	assert.Equal(t, High, opening.Severity)
	assert.Equal(t, 6, opening.Occurrences)
	assert.InDelta(t, 600, opening.TotalLoss, 1e-9)

	blk, blocked := d.IsBlocked(now, []learning.Bucket{learning.TimeOpening})
	require.True(t, blocked)
	assert.Contains(t, blk.Reason, "OPENING")
	assert.True(t, blk.Expiry.Equal(now.Add(72*time.Hour)))
}

func TestBlockExpiryIsExclusive(t *testing.T) {
	t.Parallel()

	d := NewDetector(DefaultConfig(), zerolog.Nop())
	now := time.Date(2026, 2, 2, 16, 0, 0, 0, time.UTC)

	var trades []journal.TradeRecord
	for i := 0; i < 6; i++ {
		trades = append(trades, openingLoss(i, -150))
	}
	d.Scan(now, trades)

	atExpiry := now.Add(72 * time.Hour)
	_, blocked := d.IsBlocked(atExpiry, []learning.Bucket{learning.TimeOpening})
	assert.True(t, blocked, "block holds up to and including expiry")

	_, blocked = d.IsBlocked(atExpiry.Add(time.Second), []learning.Bucket{learning.TimeOpening})
	assert.False(t, blocked, "block lapses strictly after expiry")
}

func TestCriticalBlockGetsLongerTTL(t *testing.T) {
	t.Parallel()

	d := NewDetector(DefaultConfig(), zerolog.Nop())
	now := time.Date(2026, 2, 2, 16, 0, 0, 0, time.UTC)

	var trades []journal.TradeRecord
	for i := 0; i < 10; i++ {
		trades = append(trades, openingLoss(i, -600))
	}
	d.Scan(now, trades)

	blk, blocked := d.IsBlocked(now, []learning.Bucket{learning.TimeOpening})
	require.True(t, blocked)
	assert.Equal(t, Critical, blk.Severity)
	assert.True(t, blk.Expiry.Equal(now.Add(168*time.Hour)))
}

func TestRescanExtendsBlockInsteadOfDuplicating(t *testing.T) {
	t.Parallel()

	d := NewDetector(DefaultConfig(), zerolog.Nop())
	day1 := time.Date(2026, 2, 2, 16, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	var trades []journal.TradeRecord
	for i := 0; i < 6; i++ {
		trades = append(trades, openingLoss(i, -150))
	}

	d.Scan(day1, trades)
	d.Scan(day2, trades)

	// One block per clustered dimension (time, oi, greeks, vol, exit),
	// not one per scan.
	blocks := d.ActiveBlocks(day2)
	require.Len(t, blocks, 5)
	blk, blocked := d.IsBlocked(day2, []learning.Bucket{learning.TimeOpening})
	require.True(t, blocked)
	assert.True(t, blk.Expiry.Equal(day2.Add(72*time.Hour)), "re-detection refreshed the expiry")
}

func TestScanIgnoresImmaterialClusters(t *testing.T) {
	t.Parallel()

	d := NewDetector(DefaultConfig(), zerolog.Nop())
	now := time.Date(2026, 2, 2, 16, 0, 0, 0, time.UTC)

	// Plenty of occurrences but trivial aggregate loss.
	var trades []journal.TradeRecord
	for i := 0; i < 6; i++ {
		trades = append(trades, openingLoss(i, -10))
	}

	patterns := d.Scan(now, trades)
	assert.Empty(t, patterns)
	_, blocked := d.IsBlocked(now, []learning.Bucket{learning.TimeOpening})
	assert.False(t, blocked)
}

func TestClearDropsAllBlocks(t *testing.T) {
	t.Parallel()

	d := NewDetector(DefaultConfig(), zerolog.Nop())
	now := time.Date(2026, 2, 2, 16, 0, 0, 0, time.UTC)

	var trades []journal.TradeRecord
	for i := 0; i < 6; i++ {
		trades = append(trades, openingLoss(i, -150))
	}
	d.Scan(now, trades)
	require.NotEmpty(t, d.ActiveBlocks(now))

	d.Clear()
	assert.Empty(t, d.ActiveBlocks(now))
}

func TestRestoreRoundTrip(t *testing.T) {
	t.Parallel()

	d := NewDetector(DefaultConfig(), zerolog.Nop())
	now := time.Date(2026, 2, 2, 16, 0, 0, 0, time.UTC)

	d.Restore([]Block{{
		Condition: learning.VolHigh,
		Severity:  High,
		Expiry:    now.Add(time.Hour),
		Reason:    "restored",
	}})

	_, blocked := d.IsBlocked(now, []learning.Bucket{learning.VolHigh})
	assert.True(t, blocked)
}
