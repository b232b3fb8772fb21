package pattern

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Habibbiswas460/Angel-x-sub003/journal"
	"github.com/Habibbiswas460/Angel-x-sub003/learning"
)

// Config holds the detection and severity thresholds. The severity ladder
// is ANY-of: a cluster escalates when either its count or its loss clears
// the rung.
type Config struct {
	MinOccurrences  int     `json:"min_occurrences" yaml:"min_occurrences"`   // default 3
	MaterialityLoss float64 `json:"materiality_loss" yaml:"materiality_loss"` // default 500

	MediumCount   int     `json:"medium_count" yaml:"medium_count"`     // default 5
	MediumLoss    float64 `json:"medium_loss" yaml:"medium_loss"`       // default 1000
	HighCount     int     `json:"high_count" yaml:"high_count"`         // default 6
	HighLoss      float64 `json:"high_loss" yaml:"high_loss"`           // default 2000
	CriticalCount int     `json:"critical_count" yaml:"critical_count"` // default 10
	CriticalLoss  float64 `json:"critical_loss" yaml:"critical_loss"`   // default 5000

	HighBlockTTL     time.Duration `json:"high_block_ttl" yaml:"high_block_ttl"`         // default 72h
	CriticalBlockTTL time.Duration `json:"critical_block_ttl" yaml:"critical_block_ttl"` // default 168h
}

func DefaultConfig() Config {
	return Config{
		MinOccurrences:   3,
		MaterialityLoss:  500,
		MediumCount:      5,
		MediumLoss:       1000,
		HighCount:        6,
		HighLoss:         2000,
		CriticalCount:    10,
		CriticalLoss:     5000,
		HighBlockTTL:     72 * time.Hour,
		CriticalBlockTTL: 168 * time.Hour,
	}
}

// Detector scans the trade window for recurring loss clusters and keeps
// the active block set. Scan is the single writer; IsBlocked is the hot
// read path called on every signal evaluation.
type Detector struct {
	cfg Config
	log zerolog.Logger

	mu     sync.RWMutex
	blocks map[learning.Bucket]Block
}

func NewDetector(cfg Config, log zerolog.Logger) *Detector {
	return &Detector{
		cfg:    cfg,
		log:    log,
		blocks: make(map[learning.Bucket]Block),
	}
}

// Scan groups losing trades by bucket, emits patterns for material
// clusters, and creates or refreshes blocks for HIGH/CRITICAL ones.
// Expired blocks are dropped while the write lock is held.
func (d *Detector) Scan(now time.Time, trades []journal.TradeRecord) []LossPattern {
	type cluster struct {
		count int
		loss  float64
	}
	clusters := make(map[learning.Bucket]*cluster)

	for _, rec := range trades {
		if rec.Won {
			continue
		}
		loss := -rec.PnL
		if loss < 0 {
			loss = 0 // a "lost" trade that scratched out flat
		}
		for _, b := range learning.TradeBuckets(rec) {
			c := clusters[b]
			if c == nil {
				c = &cluster{}
				clusters[b] = c
			}
			c.count++
			c.loss += loss
		}
	}

	var patterns []LossPattern
	for b, c := range clusters {
		if c.count < d.cfg.MinOccurrences || c.loss < d.cfg.MaterialityLoss {
			continue
		}
		patterns = append(patterns, LossPattern{
			Type:        typeOf(b),
			Condition:   b,
			Occurrences: c.count,
			TotalLoss:   c.loss,
			Severity:    d.severity(c.count, c.loss),
		})
	}
	sort.Slice(patterns, func(i, j int) bool { return patterns[i].Condition < patterns[j].Condition })

	d.mu.Lock()
	for b, blk := range d.blocks {
		if !blk.Active(now) {
			delete(d.blocks, b)
		}
	}
	for _, p := range patterns {
		ttl := time.Duration(0)
		switch p.Severity {
		case High:
			ttl = d.cfg.HighBlockTTL
		case Critical:
			ttl = d.cfg.CriticalBlockTTL
		default:
			continue
		}
		blk := Block{
			Condition: p.Condition,
			Severity:  p.Severity,
			Expiry:    now.Add(ttl),
			Reason: fmt.Sprintf("%d losing trades (%.0f total loss) clustered on %s",
				p.Occurrences, p.TotalLoss, p.Condition),
		}
		d.blocks[p.Condition] = blk
		d.log.Warn().
			Str("condition", string(p.Condition)).
			Str("severity", p.Severity.String()).
			Time("expiry", blk.Expiry).
			Msg("pattern block active")
	}
	d.mu.Unlock()

	return patterns
}

func (d *Detector) severity(count int, loss float64) Severity {
	switch {
	case count >= d.cfg.CriticalCount || loss >= d.cfg.CriticalLoss:
		return Critical
	case count >= d.cfg.HighCount || loss >= d.cfg.HighLoss:
		return High
	case count >= d.cfg.MediumCount || loss >= d.cfg.MediumLoss:
		return Medium
	default:
		return Low
	}
}

// IsBlocked checks the candidate buckets against the active block set.
// O(len(buckets)) map lookups under a read lock.
func (d *Detector) IsBlocked(now time.Time, buckets []learning.Bucket) (Block, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, b := range buckets {
		if blk, ok := d.blocks[b]; ok && blk.Active(now) {
			return blk, true
		}
	}
	return Block{}, false
}

// ActiveBlocks returns the blocks still in force, sorted by condition.
func (d *Detector) ActiveBlocks(now time.Time) []Block {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []Block
	for _, blk := range d.blocks {
		if blk.Active(now) {
			out = append(out, blk)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Condition < out[j].Condition })
	return out
}

// Clear drops every block, active or not. Used by the emergency reset.
func (d *Detector) Clear() {
	d.mu.Lock()
	d.blocks = make(map[learning.Bucket]Block)
	d.mu.Unlock()
}

// Restore replaces the block set from a persisted snapshot.
func (d *Detector) Restore(blocks []Block) {
	d.mu.Lock()
	d.blocks = make(map[learning.Bucket]Block, len(blocks))
	for _, blk := range blocks {
		d.blocks[blk.Condition] = blk
	}
	d.mu.Unlock()
}
