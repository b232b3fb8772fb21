package learning

import (
	"sort"

	"github.com/Habibbiswas460/Angel-x-sub003/journal"
	"github.com/Habibbiswas460/Angel-x-sub003/regime"
)

// Action is what an insight recommends for its bucket.
type Action int

const (
	Amplify Action = iota
	Restrict
	Block
)

func (a Action) String() string {
	switch a {
	case Restrict:
		return "RESTRICT"
	case Block:
		return "BLOCK"
	default:
		return "AMPLIFY"
	}
}

// Performance is one bucket's record over the lookback window. Derived
// every cycle from the trade log; never the source of truth.
type Performance struct {
	Bucket   Bucket
	Trades   int
	Wins     int
	TotalPnL float64
	WinRate  float64
	AvgPnL   float64
}

// Insight is a recommendation for one bucket, emitted only when the
// sample is big enough and the win rate deviates meaningfully from the
// neutral baseline.
type Insight struct {
	Bucket     Bucket
	Action     Action
	Confidence float64
	SampleSize int
	WinRate    float64
}

// Config holds the learning thresholds.
type Config struct {
	MinSampleSize   int     `json:"min_sample_size" yaml:"min_sample_size"`     // default 20
	AmplifyWinRate  float64 `json:"amplify_win_rate" yaml:"amplify_win_rate"`   // default 0.70
	RestrictWinRate float64 `json:"restrict_win_rate" yaml:"restrict_win_rate"` // default 0.45
	BlockWinRate    float64 `json:"block_win_rate" yaml:"block_win_rate"`       // default 0.35
}

func DefaultConfig() Config {
	return Config{
		MinSampleSize:   20,
		AmplifyWinRate:  0.70,
		RestrictWinRate: 0.45,
		BlockWinRate:    0.35,
	}
}

// Engine aggregates closed trades into bucket performance and insights.
// Stateless between calls; everything is recomputed from the window.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Analyze walks the window once, accumulating per-bucket counts, then
// emits insights for buckets whose sample clears the minimum. Buckets
// below the minimum are skipped silently; thin data is expected, not an
// error.
func (e *Engine) Analyze(trades []journal.TradeRecord) (map[Bucket]Performance, []Insight) {
	perf := make(map[Bucket]Performance)

	for _, rec := range trades {
		for _, b := range TradeBuckets(rec) {
			p := perf[b]
			p.Bucket = b
			p.Trades++
			if rec.Won {
				p.Wins++
			}
			p.TotalPnL += rec.PnL
			perf[b] = p
		}
	}

	for b, p := range perf {
		p.WinRate = float64(p.Wins) / float64(p.Trades)
		p.AvgPnL = p.TotalPnL / float64(p.Trades)
		perf[b] = p
	}

	var insights []Insight
	for _, p := range perf {
		ins, ok := e.insightFor(p)
		if ok {
			insights = append(insights, ins)
		}
	}
	sort.Slice(insights, func(i, j int) bool { return insights[i].Bucket < insights[j].Bucket })

	return perf, insights
}

func (e *Engine) insightFor(p Performance) (Insight, bool) {
	if p.Trades < e.cfg.MinSampleSize {
		return Insight{}, false
	}

	var action Action
	switch {
	case p.WinRate >= e.cfg.AmplifyWinRate:
		action = Amplify
	case p.WinRate <= e.cfg.BlockWinRate:
		action = Block
	case p.WinRate <= e.cfg.RestrictWinRate:
		action = Restrict
	default:
		return Insight{}, false // neutral, nothing to recommend
	}

	return Insight{
		Bucket:     p.Bucket,
		Action:     action,
		Confidence: insightConfidence(p.WinRate, p.Trades, e.cfg.MinSampleSize),
		SampleSize: p.Trades,
		WinRate:    p.WinRate,
	}, true
}

// insightConfidence grows with deviation from the neutral baseline and
// with sample size, saturating at twice the minimum sample.
func insightConfidence(winRate float64, trades, minSample int) float64 {
	deviation := winRate - 0.5
	if deviation < 0 {
		deviation = -deviation
	}
	depth := float64(trades) / float64(2*minSample)
	if depth > 1 {
		depth = 1
	}
	conf := 2*deviation*0.7 + 0.3*depth
	if conf > 1 {
		conf = 1
	}
	return conf
}

// RegimeAffinity maps each bucket to the market regime it performed best
// in, inferred from the volatility level its winning trades clustered in.
// Buckets with too few trades per level stay at NORMAL.
func RegimeAffinity(trades []journal.TradeRecord, minPerLevel int) map[Bucket]regime.Regime {
	type cell struct{ trades, wins int }
	byVol := make(map[Bucket]map[Bucket]*cell)

	for _, rec := range trades {
		vol := VolBucket(rec.Volatility)
		for _, b := range TradeBuckets(rec) {
			inner := byVol[b]
			if inner == nil {
				inner = make(map[Bucket]*cell)
				byVol[b] = inner
			}
			c := inner[vol]
			if c == nil {
				c = &cell{}
				inner[vol] = c
			}
			c.trades++
			if rec.Won {
				c.wins++
			}
		}
	}

	out := make(map[Bucket]regime.Regime, len(byVol))
	for b, inner := range byVol {
		best := regime.Normal
		bestRate := -1.0
		for _, vol := range []Bucket{VolLow, VolNormal, VolHigh} {
			c := inner[vol]
			if c == nil || c.trades < minPerLevel {
				continue
			}
			rate := float64(c.wins) / float64(c.trades)
			if rate > bestRate {
				bestRate = rate
				best = volRegime(vol)
			}
		}
		out[b] = best
	}
	return out
}

func volRegime(vol Bucket) regime.Regime {
	switch vol {
	case VolLow:
		return regime.LowVolatility
	case VolHigh:
		return regime.HighVolatility
	default:
		return regime.Normal
	}
}
