package confidence

import (
	"github.com/Habibbiswas460/Angel-x-sub003/journal"
	"github.com/Habibbiswas460/Angel-x-sub003/learning"
	"github.com/Habibbiswas460/Angel-x-sub003/regime"
)

// Tier is the discrete signal-quality level.
type Tier int

const (
	VeryLow Tier = iota
	Low
	Medium
	High
	VeryHigh
)

func (t Tier) String() string {
	switch t {
	case VeryLow:
		return "VERY_LOW"
	case Low:
		return "LOW"
	case High:
		return "HIGH"
	case VeryHigh:
		return "VERY_HIGH"
	default:
		return "MEDIUM"
	}
}

// Size returns the fixed tier-to-size multiplier. VERY_LOW is an
// effective block.
func (t Tier) Size() float64 {
	switch t {
	case VeryLow:
		return 0.0
	case Low:
		return 0.5
	case High:
		return 1.0
	case VeryHigh:
		return 1.2
	default:
		return 0.8
	}
}

// SignalConfidence is the scorer's output for one signal.
type SignalConfidence struct {
	Tier            Tier
	Score           float64 // 0..1
	RecommendedSize float64
}

// Config holds the term weights and breakpoints. The four term weights
// should sum to 1; Validate in the config package enforces it.
type Config struct {
	HistoryWeight  float64 `json:"history_weight" yaml:"history_weight"`   // default 0.40
	RegimeWeight   float64 `json:"regime_weight" yaml:"regime_weight"`     // default 0.25
	RecentWeight   float64 `json:"recent_weight" yaml:"recent_weight"`     // default 0.20
	AdequacyWeight float64 `json:"adequacy_weight" yaml:"adequacy_weight"` // default 0.15

	RecentWindow  int     `json:"recent_window" yaml:"recent_window"`     // default 10
	MinSampleSize int     `json:"min_sample_size" yaml:"min_sample_size"` // default 20
	NoHistoryCap  float64 `json:"no_history_cap" yaml:"no_history_cap"`   // default 0.55, keeps zero-history tiers at MEDIUM or below
}

func DefaultConfig() Config {
	return Config{
		HistoryWeight:  0.40,
		RegimeWeight:   0.25,
		RecentWeight:   0.20,
		AdequacyWeight: 0.15,
		RecentWindow:   10,
		MinSampleSize:  20,
		NoHistoryCap:   0.55,
	}
}

// Scorer combines bucket history, regime match, recent form and sample
// adequacy into one score. Stateless; safe for concurrent use.
type Scorer struct {
	cfg Config
}

func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score weighs the four terms. A bucket with no history scores every
// unknown term at the neutral 0.5, contributes zero adequacy, and is
// capped below the HIGH breakpoint regardless of the other terms.
func (s *Scorer) Score(perf learning.Performance, affinity regime.Regime, current regime.Regime, recent []journal.TradeRecord) SignalConfidence {
	hist := 0.5
	match := 0.5
	if perf.Trades > 0 {
		hist = clamp01(perf.WinRate)
		match = regimeMatch(affinity, current)
	}

	score := s.cfg.HistoryWeight*hist +
		s.cfg.RegimeWeight*match +
		s.cfg.RecentWeight*recentTerm(recent, s.cfg.RecentWindow) +
		s.cfg.AdequacyWeight*s.adequacy(perf.Trades)

	if perf.Trades == 0 && score > s.cfg.NoHistoryCap {
		score = s.cfg.NoHistoryCap
	}
	score = clamp01(score)

	tier := tierOf(score)
	return SignalConfidence{
		Tier:            tier,
		Score:           score,
		RecommendedSize: tier.Size(),
	}
}

// adequacy saturates at twice the minimum sample size.
func (s *Scorer) adequacy(trades int) float64 {
	full := 2 * s.cfg.MinSampleSize
	if trades >= full {
		return 1.0
	}
	return float64(trades) / float64(full)
}

// recentTerm is the trailing-window win rate, neutral when there is no
// recent history to judge by.
func recentTerm(recent []journal.TradeRecord, window int) float64 {
	if len(recent) == 0 {
		return 0.5
	}
	if len(recent) > window {
		recent = recent[len(recent)-window:]
	}
	wins := 0
	for _, rec := range recent {
		if rec.Won {
			wins++
		}
	}
	return float64(wins) / float64(len(recent))
}

// regimeMatch grades how well the bucket's best regime fits the current
// one: exact match scores full, a NORMAL on either side is a partial
// match, disagreement scores low.
func regimeMatch(affinity, current regime.Regime) float64 {
	switch {
	case affinity == current:
		return 1.0
	case affinity == regime.Normal || current == regime.Normal:
		return 0.6
	default:
		return 0.3
	}
}

func tierOf(score float64) Tier {
	switch {
	case score < 0.2:
		return VeryLow
	case score < 0.4:
		return Low
	case score < 0.6:
		return Medium
	case score < 0.8:
		return High
	default:
		return VeryHigh
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
