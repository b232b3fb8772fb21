package regime

// Regime labels the current market character.
type Regime int

const (
	Normal Regime = iota
	TrendingBullish
	TrendingBearish
	Choppy
	HighVolatility
	LowVolatility
	EventDriven
)

func (r Regime) String() string {
	switch r {
	case TrendingBullish:
		return "TRENDING_BULLISH"
	case TrendingBearish:
		return "TRENDING_BEARISH"
	case Choppy:
		return "CHOPPY"
	case HighVolatility:
		return "HIGH_VOLATILITY"
	case LowVolatility:
		return "LOW_VOLATILITY"
	case EventDriven:
		return "EVENT_DRIVEN"
	default:
		return "NORMAL"
	}
}

// FrequencyTier is how often the posture allows entries.
type FrequencyTier int

const (
	FrequencyStandard FrequencyTier = iota
	FrequencyReduced
	FrequencySelective
)

func (f FrequencyTier) String() string {
	switch f {
	case FrequencyReduced:
		return "REDUCED"
	case FrequencySelective:
		return "SELECTIVE"
	default:
		return "STANDARD"
	}
}

// SizeTier is the posture's default position-size stance.
type SizeTier int

const (
	SizeStandard SizeTier = iota
	SizeLight
	SizeAggressive
)

func (s SizeTier) String() string {
	switch s {
	case SizeLight:
		return "LIGHT"
	case SizeAggressive:
		return "AGGRESSIVE"
	default:
		return "STANDARD"
	}
}

// HoldingStyle is how long the posture expects positions to run.
type HoldingStyle int

const (
	HoldIntraday HoldingStyle = iota
	HoldQuick
	HoldRunner
)

func (h HoldingStyle) String() string {
	switch h {
	case HoldQuick:
		return "QUICK"
	case HoldRunner:
		return "RUNNER"
	default:
		return "INTRADAY"
	}
}

// Posture is the trading stance recommended for a regime.
type Posture struct {
	Frequency FrequencyTier
	Size      SizeTier
	Holding   HoldingStyle
}

// Classification is the per-evaluation output. It has no identity across
// calls; every EvaluateSignal reclassifies from the snapshot it was given.
type Classification struct {
	Regime     Regime
	Confidence float64 // 0..1
	Posture    Posture
}

// postures maps each regime to its recommended stance.
var postures = map[Regime]Posture{
	Normal:          {FrequencyStandard, SizeStandard, HoldIntraday},
	TrendingBullish: {FrequencyStandard, SizeAggressive, HoldRunner},
	TrendingBearish: {FrequencyStandard, SizeAggressive, HoldRunner},
	Choppy:          {FrequencyReduced, SizeLight, HoldQuick},
	HighVolatility:  {FrequencyReduced, SizeLight, HoldQuick},
	LowVolatility:   {FrequencySelective, SizeStandard, HoldIntraday},
	EventDriven:     {FrequencySelective, SizeLight, HoldQuick},
}

// PostureFor returns the recommended posture for a regime.
func PostureFor(r Regime) Posture {
	return postures[r]
}
