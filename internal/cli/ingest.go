package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hosgoru/handsync/internal/pipeline"
)

func newIngestCmd() *cobra.Command {
	var (
		flagYear    int
		flagMonth   int
		flagWorkers int
		flagDelay   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run the full pipeline for one calendar month",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagMonth < 1 || flagMonth > 12 {
				return fmt.Errorf("invalid month: %d", flagMonth)
			}

			// Interrupt finishes in-flight items and discards the batch.
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			summary, err := pipeline.Ingest(ctx, pipeline.Options{
				Year:    flagYear,
				Month:   flagMonth,
				DBPath:  flagDB,
				BaseURL: flagBaseURL,
				Workers: flagWorkers,
				Delay:   flagDelay,
			})
			summary.Write(os.Stdout)
			if err != nil {
				fmt.Fprintf(os.Stderr, "ingest: %v\n", err)
			}
			os.Exit(summary.ExitCode())
			return nil
		},
	}

	cmd.Flags().IntVar(&flagYear, "year", time.Now().Year(), "Calendar year")
	cmd.Flags().IntVar(&flagMonth, "month", int(time.Now().Month()), "Calendar month (1-12)")
	cmd.Flags().IntVar(&flagWorkers, "workers", pipeline.DefaultWorkers, "Concurrent event fetchers")
	cmd.Flags().DurationVar(&flagDelay, "delay", pipeline.DefaultDelay, "Pause between board fetches")
	return cmd
}
