package adaptive

import (
	"fmt"
	"time"

	"github.com/Habibbiswas460/Angel-x-sub003/confidence"
	"github.com/Habibbiswas460/Angel-x-sub003/regime"
)

// Decision is the per-signal output: trade or not, how large, and why.
// Built fresh on every call; this core never stores it.
type Decision struct {
	ShouldTrade     bool
	BlockReason     string
	Tier            confidence.Tier
	Score           float64
	RecommendedSize float64 // 0..1.2
	Regime          regime.Regime
	Explanation     string
}

// Summary is what RunDailyLearning hands back for logging/dashboards.
type Summary struct {
	GeneratedAt       time.Time
	TradesAnalyzed    int
	InsightsGenerated int
	PatternsDetected  int
	ActiveBlocks      int
	ProposalsCreated  int
	ProposalsApproved int
	ProposalsRejected int
	Cautions          int
}

func (s Summary) String() string {
	return fmt.Sprintf("learning cycle: %d trades, %d insights, %d patterns (%d blocks active), proposals %d created / %d approved / %d rejected",
		s.TradesAnalyzed, s.InsightsGenerated, s.PatternsDetected, s.ActiveBlocks,
		s.ProposalsCreated, s.ProposalsApproved, s.ProposalsRejected)
}
