package regime

import (
	"github.com/Habibbiswas460/Angel-x-sub003/market"
)

// Config holds the classifier thresholds. Values are in the units of the
// volatility proxy supplied by the market-data feed (IV-rank style, 0..1
// nominal but not clamped).
type Config struct {
	HighVolThreshold float64 `json:"high_vol_threshold" yaml:"high_vol_threshold"` // default 0.85
	LowVolThreshold  float64 `json:"low_vol_threshold" yaml:"low_vol_threshold"`   // default 0.25
	TrendStrengthMin float64 `json:"trend_strength_min" yaml:"trend_strength_min"` // default 0.60
	ChopStrengthMax  float64 `json:"chop_strength_max" yaml:"chop_strength_max"`   // default 0.25
}

func DefaultConfig() Config {
	return Config{
		HighVolThreshold: 0.85,
		LowVolThreshold:  0.25,
		TrendStrengthMin: 0.60,
		ChopStrengthMax:  0.25,
	}
}

// Classifier turns a market snapshot into a Classification. Stateless and
// pure; safe for concurrent use.
type Classifier struct {
	cfg Config
}

func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify applies a fixed decision order: event flag, high volatility,
// low volatility, directional trend, chop, then NORMAL. Invalid snapshots
// classify as NORMAL with low confidence; the live loop always gets an
// answer.
func (c *Classifier) Classify(snap market.Snapshot) Classification {
	if !snap.Valid() {
		return classification(Normal, 0.10)
	}

	cfg := c.cfg

	if snap.EventFlag {
		// Events override everything, including extreme volatility.
		conf := 0.70 + 0.30*clamp01(snap.VolatilityProxy/cfg.HighVolThreshold)
		return classification(EventDriven, clamp01(conf))
	}

	if snap.VolatilityProxy >= cfg.HighVolThreshold {
		over := (snap.VolatilityProxy - cfg.HighVolThreshold) / cfg.HighVolThreshold
		return classification(HighVolatility, clamp01(0.60+over))
	}

	if snap.VolatilityProxy <= cfg.LowVolThreshold {
		under := (cfg.LowVolThreshold - snap.VolatilityProxy) / cfg.LowVolThreshold
		return classification(LowVolatility, clamp01(0.55+0.45*under))
	}

	if snap.TrendStrength >= cfg.TrendStrengthMin && snap.TrendDirection != market.TrendFlat {
		// Confidence grows with how decisively the strength threshold
		// was cleared, tempered by mid-range volatility.
		margin := (snap.TrendStrength - cfg.TrendStrengthMin) / (1 - cfg.TrendStrengthMin)
		conf := clamp01(0.55 + 0.45*margin)
		if snap.TrendDirection == market.TrendUp {
			return classification(TrendingBullish, conf)
		}
		return classification(TrendingBearish, conf)
	}

	if snap.TrendStrength <= cfg.ChopStrengthMax {
		weak := (cfg.ChopStrengthMax - snap.TrendStrength) / cfg.ChopStrengthMax
		return classification(Choppy, clamp01(0.50+0.40*weak))
	}

	return classification(Normal, 0.50)
}

func classification(r Regime, conf float64) Classification {
	return Classification{
		Regime:     r,
		Confidence: conf,
		Posture:    PostureFor(r),
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
