package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	statePath  string
	dbPath     string
	verbose    bool
}

func main() {
	rf := &rootFlags{}

	root := &cobra.Command{
		Use:   "adaptd",
		Short: "Operate the adaptive trade-admission core",
		Long: `adaptd runs the adaptive core's batch operations outside the live
trading process: daily learning cycles against a trade journal, state
snapshot inspection, one-shot signal evaluations, and the emergency
reset.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&rf.configPath, "config", "", "path to adaptive config (YAML or JSON); defaults apply if unset")
	root.PersistentFlags().StringVar(&rf.statePath, "state", "./adaptive-state.json", "path to the state snapshot")
	root.PersistentFlags().StringVar(&rf.dbPath, "db", "./trades.sqlite", "path to the SQLite trade journal")
	root.PersistentFlags().BoolVarP(&rf.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newLearnCmd(rf),
		newStateCmd(rf),
		newEvalCmd(rf),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (rf *rootFlags) logger() zerolog.Logger {
	level := zerolog.InfoLevel
	if rf.verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
