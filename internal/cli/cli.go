// Package cli wires the cobra command surface: ingest, repair, verify.
package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hosgoru/handsync/internal/pipeline"
	"github.com/hosgoru/handsync/internal/vugraph"
)

// DefaultDBPath is where the canonical database lives unless --db says
// otherwise.
const DefaultDBPath = "hands_database.json"

var (
	flagDB      string
	flagBaseURL string
	flagVerbose bool
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "handsync",
		Short: "Ingest tournament deals from vugraph and enrich them with double-dummy analysis",
		Long: `handsync crawls a vugraph club site month by month, extracts the 52-card
deal and pair results for every board, computes double-dummy analysis, par,
and Law-of-Total-Tricks figures, and merges the records into a canonical
JSON database keyed by (event_id, board).`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logrus.SetOutput(os.Stderr)
			if flagVerbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	cmd.PersistentFlags().StringVar(&flagDB, "db", DefaultDBPath, "Path to the canonical database")
	cmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", vugraph.DefaultBaseURL, "Source site root URL")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	cmd.AddCommand(newIngestCmd())
	cmd.AddCommand(newRepairCmd())
	cmd.AddCommand(newVerifyCmd())
	return cmd
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(pipeline.ExitIO)
	}
}
