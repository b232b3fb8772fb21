package learning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Habibbiswas460/Angel-x-sub003/journal"
	"github.com/Habibbiswas460/Angel-x-sub003/market"
	"github.com/Habibbiswas460/Angel-x-sub003/regime"
)

// afternoonTrade builds a closed trade whose entry falls in the afternoon
// session with otherwise neutral attributes.
func afternoonTrade(i int, won bool, pnl float64) journal.TradeRecord {
	entry := time.Date(2026, 2, 2, 14, 10, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute)
	return journal.TradeRecord{
		TradeID:      "T" + string(rune('0'+i%10)),
		EntryTime:    entry,
		ExitTime:     entry.Add(20 * time.Minute),
		Won:          won,
		PnL:          pnl,
		OIConviction: market.OIModerate,
		GreeksRegime: market.GreeksNeutral,
		Volatility:   market.VolNormal,
		ExitReason:   market.ExitTarget,
	}
}

func TestSignalBucketsDimensionsAndCombos(t *testing.T) {
	t.Parallel()

	sig := market.SignalAttributes{
		Timestamp:    time.Date(2026, 2, 2, 9, 20, 0, 0, time.UTC),
		OIConviction: market.OIWeak,
		GreeksRegime: market.GreeksNeutral,
		Volatility:   market.VolHigh,
	}

	got := SignalBuckets(sig)

	assert.Contains(t, got, TimeOpening)
	assert.Contains(t, got, OIWeak)
	assert.Contains(t, got, VolHigh)
	assert.Contains(t, got, Bucket("combo:OPENING+HIGH_VOL"))
	assert.Contains(t, got, Bucket("combo:OPENING+WEAK_OI"))
	// Exit buckets never apply to signals.
	for _, b := range got {
		assert.NotContains(t, string(b), "exit:")
	}
}

func TestAnalyzeEmitsAmplify(t *testing.T) {
	t.Parallel()

	// 25 afternoon trades, 19 wins: 76% win rate on an adequate sample.
	var trades []journal.TradeRecord
	for i := 0; i < 25; i++ {
		trades = append(trades, afternoonTrade(i, i < 19, 100))
	}

	e := NewEngine(DefaultConfig())
	perf, insights := e.Analyze(trades)

	p := perf[TimeAfternoon]
	assert.Equal(t, 25, p.Trades)
	assert.Equal(t, 19, p.Wins)
	assert.InDelta(t, 0.76, p.WinRate, 1e-9)
	assert.GreaterOrEqual(t, p.Trades, p.Wins)

	var found *Insight
	for i := range insights {
		if insights[i].Bucket == TimeAfternoon {
			found = &insights[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, Amplify, found.Action)
	assert.Equal(t, 25, found.SampleSize)
	assert.Greater(t, found.Confidence, 0.3)
}

func TestAnalyzeClassifiesRestrictAndBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		wins int
		want Action
	}{
		{"block at 32%", 8, Block},     // 8/25
		{"restrict at 40%", 10, Restrict}, // 10/25
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var trades []journal.TradeRecord
			for i := 0; i < 25; i++ {
				trades = append(trades, afternoonTrade(i, i < tt.wins, -50))
			}

			e := NewEngine(DefaultConfig())
			_, insights := e.Analyze(trades)

			var found *Insight
			for i := range insights {
				if insights[i].Bucket == TimeAfternoon {
					found = &insights[i]
				}
			}
			require.NotNil(t, found)
			assert.Equal(t, tt.want, found.Action)
		})
	}
}

func TestAnalyzeSkipsThinBuckets(t *testing.T) {
	t.Parallel()

	// 19 trades, all winners: one short of the minimum sample.
	var trades []journal.TradeRecord
	for i := 0; i < 19; i++ {
		trades = append(trades, afternoonTrade(i, true, 100))
	}

	e := NewEngine(DefaultConfig())
	perf, insights := e.Analyze(trades)

	assert.Equal(t, 19, perf[TimeAfternoon].Trades)
	for _, ins := range insights {
		assert.NotEqual(t, TimeAfternoon, ins.Bucket)
	}
}

func TestAnalyzeNeutralBucketsEmitNothing(t *testing.T) {
	t.Parallel()

	// 50% win rate: squarely neutral.
	var trades []journal.TradeRecord
	for i := 0; i < 24; i++ {
		trades = append(trades, afternoonTrade(i, i%2 == 0, 10))
	}

	e := NewEngine(DefaultConfig())
	_, insights := e.Analyze(trades)
	assert.Empty(t, insights)
}

func TestRegimeAffinityPrefersWinningVolLevel(t *testing.T) {
	t.Parallel()

	var trades []journal.TradeRecord
	for i := 0; i < 10; i++ {
		rec := afternoonTrade(i, true, 100)
		rec.Volatility = market.VolHigh
		trades = append(trades, rec)
	}
	for i := 0; i < 10; i++ {
		rec := afternoonTrade(i, false, -100)
		rec.Volatility = market.VolLow
		trades = append(trades, rec)
	}

	aff := RegimeAffinity(trades, 5)
	assert.Equal(t, regime.HighVolatility, aff[TimeAfternoon])
}
