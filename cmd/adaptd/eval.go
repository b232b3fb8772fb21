package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Habibbiswas460/Angel-x-sub003/market"
)

// newEvalCmd evaluates a single synthetic signal against current state, a
// debugging aid for checking what the core would do right now.
func newEvalCmd(rf *rootFlags) *cobra.Command {
	var (
		vol      float64
		trend    string
		strength float64
		event    bool

		bias     float64
		oi       string
		greeks   string
		volLevel string
	)

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate one signal against the current adaptive state",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, j, err := newController(rf)
			if err != nil {
				return err
			}
			defer j.Close()

			snap := market.Snapshot{
				VolatilityProxy: vol,
				TrendStrength:   strength,
				EventFlag:       event,
			}
			switch strings.ToLower(trend) {
			case "up":
				snap.TrendDirection = market.TrendUp
			case "down":
				snap.TrendDirection = market.TrendDown
			}

			sig := market.SignalAttributes{
				Timestamp:    time.Now(),
				BiasStrength: bias,
				OIConviction: parseOI(oi),
				GreeksRegime: parseGreeks(greeks),
				Volatility:   parseVolLevel(volLevel),
			}

			dec := c.EvaluateSignal(snap, sig)

			fmt.Printf("should_trade: %v\n", dec.ShouldTrade)
			if dec.BlockReason != "" {
				fmt.Printf("block_reason: %s\n", dec.BlockReason)
			}
			fmt.Printf("regime:       %s\n", dec.Regime)
			fmt.Printf("confidence:   %s (%.2f)\n", dec.Tier, dec.Score)
			fmt.Printf("size:         %.2f\n", dec.RecommendedSize)
			fmt.Printf("explanation:  %s\n", dec.Explanation)
			return nil
		},
	}

	cmd.Flags().Float64Var(&vol, "vol", 0.5, "volatility proxy")
	cmd.Flags().StringVar(&trend, "trend", "flat", "trend direction: up, down, flat")
	cmd.Flags().Float64Var(&strength, "strength", 0.4, "trend strength 0..1")
	cmd.Flags().BoolVar(&event, "event", false, "scheduled event flag")
	cmd.Flags().Float64Var(&bias, "bias", 0.5, "signal bias strength -1..1")
	cmd.Flags().StringVar(&oi, "oi", "moderate", "OI conviction: weak, moderate, high")
	cmd.Flags().StringVar(&greeks, "greeks", "neutral", "Greeks regime: favorable, neutral, hostile")
	cmd.Flags().StringVar(&volLevel, "vol-level", "normal", "volatility level: low, normal, high")
	return cmd
}

func parseOI(s string) market.OIConviction {
	switch strings.ToLower(s) {
	case "weak":
		return market.OIWeak
	case "high":
		return market.OIHighConviction
	default:
		return market.OIModerate
	}
}

func parseGreeks(s string) market.GreeksRegime {
	switch strings.ToLower(s) {
	case "favorable":
		return market.GreeksFavorable
	case "hostile":
		return market.GreeksHostile
	default:
		return market.GreeksNeutral
	}
}

func parseVolLevel(s string) market.VolatilityLevel {
	switch strings.ToLower(s) {
	case "low":
		return market.VolLow
	case "high":
		return market.VolHigh
	default:
		return market.VolNormal
	}
}
