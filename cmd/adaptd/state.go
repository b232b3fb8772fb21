package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newStateCmd(rf *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or reset the persisted adaptive state",
	}

	cmd.AddCommand(newStateShowCmd(rf), newStateResetCmd(rf))
	return cmd
}

func newStateShowCmd(rf *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print weights, active blocks and proposal history",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, j, err := newController(rf)
			if err != nil {
				return err
			}
			defer j.Close()

			now := time.Now()
			snap := c.ExportState(now)

			fmt.Printf("snapshot saved %s\n\n", snap.SavedAt.Format(time.RFC3339))

			fmt.Printf("weights (%d non-neutral):\n", len(snap.Weights))
			for _, w := range snap.Weights {
				fmt.Printf("  %-40s %.2f  (last adjusted %s)\n",
					w.Key, w.Value, w.LastAdjusted.Format("2006-01-02 15:04"))
			}

			fmt.Printf("\nactive blocks (%d):\n", len(snap.Blocks))
			for _, b := range snap.Blocks {
				fmt.Printf("  %-40s %-8s lifts %s\n", b.Condition, b.Severity, b.Expiry.Format(time.RFC3339))
			}

			fmt.Printf("\nproposals (%d reviewed):\n", len(snap.Proposals))
			for _, p := range snap.Proposals {
				detail := p.Change.Reason
				if detail == "" {
					detail = fmt.Sprintf("posture for %s", p.Regime)
				}
				fmt.Printf("  %s  %-14s %-9s %s\n", p.Created.Format("2006-01-02"), p.Kind, p.State, detail)
			}
			return nil
		},
	}
}

func newStateResetCmd(rf *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Emergency reset: neutral weights, no blocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, j, err := newController(rf)
			if err != nil {
				return err
			}
			defer j.Close()

			c.EmergencyReset()
			if err := c.SaveState(rf.statePath, time.Now()); err != nil {
				return err
			}

			fmt.Println("adaptive state reset: all weights 1.0, all pattern blocks cleared")
			return nil
		},
	}
}
