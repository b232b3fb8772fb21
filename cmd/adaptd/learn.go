package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Habibbiswas460/Angel-x-sub003/adaptive"
	"github.com/Habibbiswas460/Angel-x-sub003/config"
	"github.com/Habibbiswas460/Angel-x-sub003/journal"
)

func loadConfig(rf *rootFlags) (*config.Config, error) {
	if rf.configPath == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(rf.configPath)
}

// newController builds a controller against the SQLite journal and
// restores prior state when a snapshot exists.
func newController(rf *rootFlags) (*adaptive.Controller, *journal.SQLite, error) {
	cfg, err := loadConfig(rf)
	if err != nil {
		return nil, nil, err
	}
	cfg.SnapshotPath = rf.statePath

	j, err := journal.NewSQLite(rf.dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open journal: %w", err)
	}

	c := adaptive.New(cfg, j, rf.logger())

	if _, statErr := os.Stat(rf.statePath); statErr == nil {
		if err := c.LoadState(rf.statePath); err != nil {
			_ = j.Close()
			return nil, nil, fmt.Errorf("restore state: %w", err)
		}
	}
	return c, j, nil
}

func newLearnCmd(rf *rootFlags) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Run one daily learning cycle against the trade journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if at != "" {
				t, err := time.ParseInLocation("2006-01-02", at, time.Local)
				if err != nil {
					return fmt.Errorf("parse --at: %w", err)
				}
				now = t.Add(24 * time.Hour) // end of that trading day
			}

			c, j, err := newController(rf)
			if err != nil {
				return err
			}
			defer j.Close()

			summary, err := c.RunDailyLearning(now)
			if err != nil {
				return err
			}

			fmt.Println(summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "run the cycle as of this trading day (YYYY-MM-DD; default now)")
	return cmd
}
