package adaptive

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Habibbiswas460/Angel-x-sub003/config"
	"github.com/Habibbiswas460/Angel-x-sub003/confidence"
	"github.com/Habibbiswas460/Angel-x-sub003/guard"
	"github.com/Habibbiswas460/Angel-x-sub003/journal"
	"github.com/Habibbiswas460/Angel-x-sub003/learning"
	"github.com/Habibbiswas460/Angel-x-sub003/market"
	"github.com/Habibbiswas460/Angel-x-sub003/pattern"
	"github.com/Habibbiswas460/Angel-x-sub003/pkg/id"
	"github.com/Habibbiswas460/Angel-x-sub003/regime"
	"github.com/Habibbiswas460/Angel-x-sub003/weights"
)

// recentKeep caps how many trailing outcomes the controller retains for
// the scorer's recent-performance term.
const recentKeep = 50

// minAffinityTrades is the per-volatility-level floor below which a
// bucket's regime affinity stays NORMAL.
const minAffinityTrades = 5

// Controller wires the classifier, learning engine, pattern detector,
// weight table, guard and scorer together. It is the only type the
// outside world calls. EvaluateSignal is the hot, read-mostly path;
// RunDailyLearning and EmergencyReset are the only writers.
type Controller struct {
	cfg *config.Config
	log zerolog.Logger

	trades journal.Journal

	classifier *regime.Classifier
	engine     *learning.Engine
	detector   *pattern.Detector
	table      *weights.Table
	adjuster   *weights.Adjuster
	guard      *guard.Guard
	scorer     *confidence.Scorer

	mu             sync.RWMutex
	perf           map[learning.Bucket]learning.Performance
	affinity       map[learning.Bucket]regime.Regime
	recent         []journal.TradeRecord
	consecWins     int
	lastRegime     regime.Regime
	lastRegimeAt   time.Time
	lastLearningAt time.Time
	posture        regime.Posture
	postureRegime  regime.Regime
	proposals      []*guard.Proposal
}

func New(cfg *config.Config, trades journal.Journal, log zerolog.Logger) *Controller {
	table := weights.NewTable()
	return &Controller{
		cfg:        cfg,
		log:        log,
		trades:     trades,
		classifier: regime.NewClassifier(cfg.Regime),
		engine:     learning.NewEngine(cfg.Learning),
		detector:   pattern.NewDetector(cfg.Pattern.Detector(), log),
		table:      table,
		adjuster:   weights.NewAdjuster(table, cfg.Guard.MaxWeightChange),
		guard:      guard.New(cfg.Guard, log),
		scorer:     confidence.NewScorer(cfg.Confidence),
		perf:       make(map[learning.Bucket]learning.Performance),
		affinity:   make(map[learning.Bucket]regime.Regime),
		posture:    regime.PostureFor(regime.Normal),
	}
}

// Weights exposes the rule-weight table (read paths only for callers).
func (c *Controller) Weights() *weights.Table { return c.table }

// Blocks returns the currently active pattern blocks.
func (c *Controller) Blocks(now time.Time) []pattern.Block {
	return c.detector.ActiveBlocks(now)
}

// Posture returns the currently approved trading posture.
func (c *Controller) Posture() regime.Posture {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.posture
}

// EvaluateSignal decides whether and how large to trade a candidate
// signal. Pure in-memory computation over bounded state; always returns
// a decision, degrading to "do not trade" on bad input.
func (c *Controller) EvaluateSignal(snap market.Snapshot, sig market.SignalAttributes) Decision {
	cls := c.classifier.Classify(snap)

	now := sig.Timestamp
	if now.IsZero() {
		now = time.Now()
	}
	c.trackRegime(cls, now)

	if !sig.Valid() {
		return Decision{
			ShouldTrade:     false,
			BlockReason:     "invalid signal attributes",
			Tier:            confidence.VeryLow,
			RecommendedSize: 0,
			Regime:          cls.Regime,
			Explanation:     "signal attributes failed validation; standing aside",
		}
	}

	buckets := learning.SignalBuckets(sig)

	if blk, blocked := c.detector.IsBlocked(now, buckets); blocked {
		return Decision{
			ShouldTrade:     false,
			BlockReason:     blk.Reason,
			Tier:            confidence.VeryLow,
			RecommendedSize: 0,
			Regime:          cls.Regime,
			Explanation: fmt.Sprintf("%s pattern block on %s: %s (lifts in %s)",
				blk.Severity, blk.Condition, blk.Reason, blk.Remaining(now).Round(time.Minute)),
		}
	}

	c.mu.RLock()
	scorePerf, weight, weightBucket := c.bucketView(buckets)
	affinity := c.affinity[scorePerf.Bucket]
	recent := c.recent
	c.mu.RUnlock()

	sc := c.scorer.Score(scorePerf, affinity, cls.Regime, recent)

	if weight <= 0 {
		return Decision{
			ShouldTrade:     false,
			BlockReason:     fmt.Sprintf("weight on %s is zero", weightBucket),
			Tier:            sc.Tier,
			Score:           sc.Score,
			RecommendedSize: 0,
			Regime:          cls.Regime,
			Explanation:     fmt.Sprintf("entry weight on %s learned down to zero; standing aside", weightBucket),
		}
	}
	if sc.Tier == confidence.VeryLow {
		return Decision{
			ShouldTrade:     false,
			BlockReason:     "confidence VERY_LOW",
			Tier:            sc.Tier,
			Score:           sc.Score,
			RecommendedSize: 0,
			Regime:          cls.Regime,
			Explanation:     c.explain(cls, sc, weight, weightBucket, false),
		}
	}

	size := sc.RecommendedSize * weight
	if size > 1.2 {
		size = 1.2
	}

	return Decision{
		ShouldTrade:     true,
		Tier:            sc.Tier,
		Score:           sc.Score,
		RecommendedSize: size,
		Regime:          cls.Regime,
		Explanation:     c.explain(cls, sc, weight, weightBucket, true),
	}
}

// bucketView picks the signal's most-informed bucket for scoring and the
// most restrictive entry weight across all its buckets. Callers hold the
// read lock.
func (c *Controller) bucketView(buckets []learning.Bucket) (learning.Performance, float64, learning.Bucket) {
	var scorePerf learning.Performance
	weight := weights.MaxWeight + 1
	weightBucket := buckets[0]

	for _, b := range buckets {
		if p, ok := c.perf[b]; ok && p.Trades > scorePerf.Trades {
			scorePerf = p
		}
		if w := c.table.Read(b, weights.RuleEntry); w < weight {
			weight = w
			weightBucket = b
		}
	}
	if weight > weights.MaxWeight {
		weight = weights.Neutral
	}
	return scorePerf, weight, weightBucket
}

func (c *Controller) explain(cls regime.Classification, sc confidence.SignalConfidence, weight float64, weightBucket learning.Bucket, trading bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s regime (%.0f%% confident); signal confidence %s (%.2f)",
		cls.Regime, cls.Confidence*100, sc.Tier, sc.Score)

	switch {
	case weight > weights.Neutral:
		fmt.Fprintf(&b, "; amplified x%.2f on %s", weight, weightBucket)
	case weight < weights.Neutral:
		fmt.Fprintf(&b, "; restricted x%.2f on %s", weight, weightBucket)
	}

	if !trading {
		b.WriteString("; standing aside")
	}
	return b.String()
}

// trackRegime records regime flips so the guard can veto posture changes
// justified by a regime that only just appeared.
func (c *Controller) trackRegime(cls regime.Classification, now time.Time) {
	c.mu.RLock()
	changed := cls.Regime != c.lastRegime
	c.mu.RUnlock()
	if !changed {
		return
	}

	c.mu.Lock()
	if cls.Regime != c.lastRegime {
		c.log.Debug().
			Str("from", c.lastRegime.String()).
			Str("to", cls.Regime.String()).
			Msg("regime change")
		c.lastRegime = cls.Regime
		c.lastRegimeAt = now
	}
	c.mu.Unlock()
}

// RecordTradeOutcome appends a closed trade to the log. Adaptive state is
// untouched until the next learning cycle; only the recent-outcome window
// and the win streak update.
func (c *Controller) RecordTradeOutcome(rec journal.TradeRecord) error {
	if err := c.trades.Append(rec); err != nil {
		return fmt.Errorf("append trade: %w", err)
	}

	c.mu.Lock()
	c.recent = append(c.recent, rec)
	if len(c.recent) > recentKeep {
		c.recent = c.recent[len(c.recent)-recentKeep:]
	}
	if rec.Won {
		c.consecWins++
	} else {
		c.consecWins = 0
	}
	c.mu.Unlock()
	return nil
}

// RunDailyLearning executes the batch learning cycle: analyze the window,
// rescan patterns, turn insights into proposals, route them through the
// guard, apply what survives, and persist a snapshot if configured.
func (c *Controller) RunDailyLearning(now time.Time) (Summary, error) {
	start := now.AddDate(0, 0, -c.cfg.LookbackDays)
	window, err := c.trades.ListClosedBetween(start, now)
	if err != nil {
		return Summary{}, fmt.Errorf("read trade window: %w", err)
	}

	perf, insights := c.engine.Analyze(window)
	affinity := learning.RegimeAffinity(window, minAffinityTrades)
	patterns := c.detector.Scan(now, window)

	c.mu.Lock()

	summary := Summary{
		GeneratedAt:       now,
		TradesAnalyzed:    len(window),
		InsightsGenerated: len(insights),
		PatternsDetected:  len(patterns),
	}

	regimeChanged := c.lastRegimeAt.After(c.lastLearningAt)
	applied := c.table.AppliedOn(now)

	for _, ins := range insights {
		ch, ok := c.adjuster.Propose(ins, now)
		if !ok {
			continue
		}

		p := guard.NewWeightProposal(ch, now)
		summary.ProposalsCreated++

		chk := c.guard.Review(p, guard.ReviewContext{
			Now:             now,
			LastApplied:     c.table.LastAdjusted(ch.Key),
			AppliedToday:    applied,
			RegimeChanged:   regimeChanged,
			ConsecutiveWins: c.consecWins,
			Window:          window,
		})
		c.proposals = append(c.proposals, p)

		if !chk.Passed {
			summary.ProposalsRejected++
			continue
		}
		if p.Caution {
			summary.Cautions++
		}

		adj := weights.Adjustment{
			ID:     id.New(),
			Key:    p.Change.Key,
			Delta:  p.Change.Delta,
			Reason: p.Change.Reason,
			At:     now,
		}
		if err := c.table.Apply(adj); err != nil {
			// The adjuster caps deltas against current state, so this
			// only fires if the table moved underneath us.
			c.log.Error().Err(err).Str("key", adj.Key.String()).Msg("apply adjustment")
			summary.ProposalsRejected++
			continue
		}
		applied++
		summary.ProposalsApproved++
		c.log.Info().
			Str("key", adj.Key.String()).
			Float64("delta", adj.Delta).
			Str("reason", adj.Reason).
			Msg("weight adjusted")
	}

	c.reviewPosture(now, regimeChanged, &summary)

	c.perf = perf
	c.affinity = affinity
	c.lastLearningAt = now
	summary.ActiveBlocks = len(c.detector.ActiveBlocks(now))

	// Capture the snapshot under the lock, write it after release:
	// evaluations must never wait on disk.
	var snap *Snapshot
	if c.cfg.SnapshotPath != "" {
		s := c.snapshotLocked(now)
		snap = &s
	}
	c.mu.Unlock()

	if snap != nil {
		if err := writeSnapshot(c.cfg.SnapshotPath, *snap); err != nil {
			c.log.Error().Err(err).Str("path", c.cfg.SnapshotPath).Msg("persist snapshot")
		}
	}

	c.log.Info().
		Int("trades", summary.TradesAnalyzed).
		Int("insights", summary.InsightsGenerated).
		Int("patterns", summary.PatternsDetected).
		Int("approved", summary.ProposalsApproved).
		Int("rejected", summary.ProposalsRejected).
		Msg("daily learning complete")

	return summary, nil
}

// reviewPosture proposes following the current regime's posture when it
// differs from the approved one. The guard's rapid-regime-change check
// keeps a regime that flipped mid-cycle from driving posture.
func (c *Controller) reviewPosture(now time.Time, regimeChanged bool, summary *Summary) {
	if c.lastRegime == c.postureRegime {
		return
	}

	p := guard.NewPostureProposal(c.lastRegime, regime.PostureFor(c.lastRegime), now)
	summary.ProposalsCreated++

	chk := c.guard.Review(p, guard.ReviewContext{
		Now:           now,
		RegimeChanged: regimeChanged,
	})
	c.proposals = append(c.proposals, p)

	if !chk.Passed {
		summary.ProposalsRejected++
		return
	}

	c.posture = p.Posture
	c.postureRegime = p.Regime
	summary.ProposalsApproved++
	c.log.Info().
		Str("regime", p.Regime.String()).
		Str("frequency", p.Posture.Frequency.String()).
		Str("size", p.Posture.Size.String()).
		Msg("posture updated")
}

// EmergencyReset returns every weight to neutral and clears all pattern
// blocks, bypassing the guard. Safe to call concurrently with in-flight
// evaluations; the next decision sees the reset state, never a mix.
func (c *Controller) EmergencyReset() {
	c.mu.Lock()
	c.table.ResetAll()
	c.detector.Clear()
	c.posture = regime.PostureFor(regime.Normal)
	c.postureRegime = regime.Normal
	c.mu.Unlock()

	c.log.Warn().Msg("emergency reset: weights neutral, pattern blocks cleared")
}
