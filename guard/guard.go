package guard

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/Habibbiswas460/Angel-x-sub003/journal"
)

// Constraint names the safety rule a failed check violated.
type Constraint string

const (
	MinInterval        Constraint = "MIN_INTERVAL"
	MaxDailyCount      Constraint = "MAX_DAILY_COUNT"
	MaxDelta           Constraint = "MAX_DELTA"
	MinSample          Constraint = "MIN_SAMPLE"
	RapidRegimeChange  Constraint = "RAPID_REGIME_CHANGE"
	ShadowTestFailed   Constraint = "SHADOW_TEST_FAILED"
	ConsecutiveWinNote Constraint = "CONSECUTIVE_WIN_CAUTION" // flag only, never rejects
)

// Check is the result of reviewing one proposal.
type Check struct {
	Passed   bool       `json:"passed"`
	Violated Constraint `json:"violated,omitempty"`
	Msg      string     `json:"msg,omitempty"`
}

func pass() Check { return Check{Passed: true} }

func fail(c Constraint, format string, args ...any) Check {
	return Check{Passed: false, Violated: c, Msg: fmt.Sprintf(format, args...)}
}

// Config holds the guard limits.
type Config struct {
	MinLearningIntervalHours int     `json:"min_learning_interval_hours" yaml:"min_learning_interval_hours"` // default 24
	MaxDailyAdjustments      int     `json:"max_daily_adjustments" yaml:"max_daily_adjustments"`             // default 5
	MaxWeightChange          float64 `json:"max_weight_change" yaml:"max_weight_change"`                     // default 0.5
	MinSampleSize            int     `json:"min_sample_size" yaml:"min_sample_size"`                         // default 20
	ConsecutiveWinCaution    int     `json:"consecutive_win_caution" yaml:"consecutive_win_caution"`         // default 5
	ShadowTest               bool    `json:"shadow_test" yaml:"shadow_test"`
}

func DefaultConfig() Config {
	return Config{
		MinLearningIntervalHours: 24,
		MaxDailyAdjustments:      5,
		MaxWeightChange:          0.5,
		MinSampleSize:            20,
		ConsecutiveWinCaution:    5,
		ShadowTest:               false,
	}
}

// ReviewContext is everything the guard needs to judge a proposal beyond
// the proposal itself. The controller assembles it from current state.
type ReviewContext struct {
	Now             time.Time
	LastApplied     time.Time // last applied change to the same target
	AppliedToday    int       // adjustments already applied today
	RegimeChanged   bool      // regime flipped within the last evaluation cycle
	ConsecutiveWins int       // trailing win streak when the proposal was made
	Window          []journal.TradeRecord
}

// Guard is the sole gate adaptive changes pass through. It holds no
// mutable state of its own; the constraint checks run against the
// context the controller hands in, which keeps the guard testable as a
// pure reviewer.
type Guard struct {
	cfg Config
	log zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Guard {
	return &Guard{cfg: cfg, log: log}
}

// Review runs the constraint checks in their fixed order and transitions
// the proposal to APPROVED or REJECTED (via SHADOW_TESTING when that
// phase is enabled). Rejections carry the violated constraint and are
// logged, never silently dropped.
func (g *Guard) Review(p *Proposal, ctx ReviewContext) Check {
	chk := g.check(p, ctx)

	if !chk.Passed {
		p.Check = chk
		_ = p.transition(Rejected)
		g.log.Info().
			Str("proposal", p.ID).
			Str("kind", p.Kind.String()).
			Str("constraint", string(chk.Violated)).
			Str("msg", chk.Msg).
			Msg("proposal rejected")
		return chk
	}

	if g.cfg.ShadowTest && p.Kind == WeightChange {
		_ = p.transition(ShadowTesting)
		outcome := ShadowTest(p.Change, ctx.Window)
		if !outcome.Acceptable() {
			chk = fail(ShadowTestFailed, "simulated pnl impact %.2f over %d trades", outcome.SimulatedImpact, outcome.TradesReplayed)
			p.Check = chk
			_ = p.transition(Rejected)
			g.log.Info().
				Str("proposal", p.ID).
				Float64("simulated_impact", outcome.SimulatedImpact).
				Msg("proposal failed shadow test")
			return chk
		}
	}

	p.Check = chk
	_ = p.transition(Approved)
	if p.Caution {
		g.log.Info().
			Str("proposal", p.ID).
			Int("consecutive_wins", ctx.ConsecutiveWins).
			Msg("proposal approved with hot-streak caution, delta dampened")
	}
	return chk
}

func (g *Guard) check(p *Proposal, ctx ReviewContext) Check {
	minInterval := time.Duration(g.cfg.MinLearningIntervalHours) * time.Hour
	if !ctx.LastApplied.IsZero() && ctx.Now.Sub(ctx.LastApplied) < minInterval {
		return fail(MinInterval, "last change to target was %s ago, minimum %s",
			ctx.Now.Sub(ctx.LastApplied).Round(time.Minute), minInterval)
	}

	if ctx.AppliedToday >= g.cfg.MaxDailyAdjustments {
		return fail(MaxDailyCount, "%d adjustments already applied today, cap %d",
			ctx.AppliedToday, g.cfg.MaxDailyAdjustments)
	}

	if p.Kind == WeightChange {
		if math.Abs(p.Change.Delta) > g.cfg.MaxWeightChange+1e-9 {
			return fail(MaxDelta, "delta %.2f exceeds max %.2f", p.Change.Delta, g.cfg.MaxWeightChange)
		}
		if p.Change.SampleSize < g.cfg.MinSampleSize {
			return fail(MinSample, "sample %d below minimum %d", p.Change.SampleSize, g.cfg.MinSampleSize)
		}
	}

	if p.Kind == PostureChange && ctx.RegimeChanged {
		return fail(RapidRegimeChange, "justifying regime %s changed within the last cycle", p.Regime)
	}

	// A hot streak dampens rather than rejects: amplifications born from
	// N straight wins get half the step.
	if ctx.ConsecutiveWins >= g.cfg.ConsecutiveWinCaution && p.Kind == WeightChange && p.Change.Delta > 0 {
		p.Caution = true
		p.Change.Delta /= 2
	}

	return pass()
}
