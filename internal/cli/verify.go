package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hosgoru/handsync/internal/pipeline"
	"github.com/hosgoru/handsync/internal/store"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check database invariants; exit 0 if clean, 1 with anomalies listed",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := store.Load(flagDB)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(pipeline.ExitIO)
			}

			violations := store.Verify(records)
			if len(violations) == 0 {
				fmt.Printf("ok: %d record(s), no anomalies\n", len(records))
				os.Exit(pipeline.ExitOK)
			}
			for _, v := range violations {
				fmt.Println(v)
			}
			os.Exit(pipeline.ExitInvariant)
			return nil
		},
	}
}
