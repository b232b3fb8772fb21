package regime

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Habibbiswas460/Angel-x-sub003/market"
)

func TestClassifyDecisionOrder(t *testing.T) {
	t.Parallel()

	c := NewClassifier(DefaultConfig())

	tests := []struct {
		name string
		snap market.Snapshot
		want Regime
	}{
		{
			"event flag beats extreme volatility",
			market.Snapshot{VolatilityProxy: 1.5, EventFlag: true},
			EventDriven,
		},
		{
			"high volatility",
			market.Snapshot{VolatilityProxy: 0.95, TrendStrength: 0.9, TrendDirection: market.TrendUp},
			HighVolatility,
		},
		{
			"low volatility",
			market.Snapshot{VolatilityProxy: 0.10},
			LowVolatility,
		},
		{
			"trending up",
			market.Snapshot{VolatilityProxy: 0.50, TrendStrength: 0.75, TrendDirection: market.TrendUp},
			TrendingBullish,
		},
		{
			"trending down",
			market.Snapshot{VolatilityProxy: 0.50, TrendStrength: 0.75, TrendDirection: market.TrendDown},
			TrendingBearish,
		},
		{
			"strong strength but flat direction is not a trend",
			market.Snapshot{VolatilityProxy: 0.50, TrendStrength: 0.75, TrendDirection: market.TrendFlat},
			Normal,
		},
		{
			"choppy",
			market.Snapshot{VolatilityProxy: 0.50, TrendStrength: 0.10},
			Choppy,
		},
		{
			"normal",
			market.Snapshot{VolatilityProxy: 0.50, TrendStrength: 0.40},
			Normal,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := c.Classify(tt.snap)
			assert.Equal(t, tt.want, got.Regime)
			assert.GreaterOrEqual(t, got.Confidence, 0.0)
			assert.LessOrEqual(t, got.Confidence, 1.0)
			assert.Equal(t, PostureFor(tt.want), got.Posture)
		})
	}
}

func TestClassifyInvalidSnapshotDefaultsNormal(t *testing.T) {
	t.Parallel()

	c := NewClassifier(DefaultConfig())

	for _, snap := range []market.Snapshot{
		{VolatilityProxy: math.NaN()},
		{VolatilityProxy: -1},
		{VolatilityProxy: 0.5, TrendStrength: 2.0},
	} {
		got := c.Classify(snap)
		assert.Equal(t, Normal, got.Regime)
		assert.LessOrEqual(t, got.Confidence, 0.2)
	}
}

func TestConfidenceScalesWithMargin(t *testing.T) {
	t.Parallel()

	c := NewClassifier(DefaultConfig())

	barely := c.Classify(market.Snapshot{VolatilityProxy: 0.86})
	far := c.Classify(market.Snapshot{VolatilityProxy: 1.40})

	assert.Equal(t, HighVolatility, barely.Regime)
	assert.Equal(t, HighVolatility, far.Regime)
	assert.Greater(t, far.Confidence, barely.Confidence)
}

func TestPostureForCoversAllRegimes(t *testing.T) {
	t.Parallel()

	for _, r := range []Regime{Normal, TrendingBullish, TrendingBearish, Choppy, HighVolatility, LowVolatility, EventDriven} {
		p := PostureFor(r)
		assert.NotEmpty(t, r.String())
		_ = p.Frequency.String()
		_ = p.Size.String()
		_ = p.Holding.String()
	}
}
