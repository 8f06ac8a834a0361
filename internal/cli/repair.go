package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hosgoru/handsync/internal/hands"
	"github.com/hosgoru/handsync/internal/pipeline"
	"github.com/hosgoru/handsync/internal/store"
)

func newRepairCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Explicit, idempotent database repairs",
	}
	cmd.AddCommand(newRepairDateCmd())
	cmd.AddCommand(newRepairRotateCmd())
	cmd.AddCommand(newRepairPurgeCmd())
	return cmd
}

// withDatabase loads the database under the lock, runs the repair, and saves
// unless the repair was a dry run or a no-op.
func withDatabase(dryRun bool, repair func(records []*hands.Record) ([]*hands.Record, int, error)) error {
	release, err := store.Lock(flagDB)
	if err != nil {
		return err
	}
	defer release()

	records, err := store.Load(flagDB)
	if err != nil {
		return err
	}

	repaired, changed, err := repair(records)
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Printf("dry run: %d record(s) would change\n", changed)
		return nil
	}
	if changed == 0 {
		fmt.Println("nothing to repair")
		return nil
	}

	if violations := store.Verify(repaired); len(violations) > 0 {
		for _, v := range violations {
			fmt.Println(v)
		}
		return fmt.Errorf("%w: repair would corrupt the database", store.ErrInvariant)
	}
	if err := store.Save(flagDB, repaired); err != nil {
		return err
	}
	fmt.Printf("repaired %d record(s)\n", changed)
	return nil
}

func newRepairDateCmd() *cobra.Command {
	var (
		flagEvent  int
		flagDate   string
		flagDryRun bool
	)

	cmd := &cobra.Command{
		Use:   "date",
		Short: "Rewrite the date on all records of an event",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := withDatabase(flagDryRun, func(records []*hands.Record) ([]*hands.Record, int, error) {
				changed, err := store.RepairDate(records, flagEvent, flagDate)
				return records, changed, err
			})
			return exitOnStoreError(err)
		},
	}

	cmd.Flags().IntVar(&flagEvent, "event", 0, "Event id (required)")
	cmd.Flags().StringVar(&flagDate, "date", "", "New date, dd.mm.yyyy (required)")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Report changes without writing")
	cmd.MarkFlagRequired("event")
	cmd.MarkFlagRequired("date")
	return cmd
}

func newRepairRotateCmd() *cobra.Command {
	var (
		flagEvents string
		flagDryRun bool
	)

	cmd := &cobra.Command{
		Use:   "rotate",
		Short: "Apply the N↔W, S↔E seat swap to named events",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseEventList(flagEvents)
			if err != nil {
				return err
			}
			err = withDatabase(flagDryRun, func(records []*hands.Record) ([]*hands.Record, int, error) {
				return records, store.RepairRotate(records, ids), nil
			})
			return exitOnStoreError(err)
		},
	}

	cmd.Flags().StringVar(&flagEvents, "events", "", "Comma-separated event ids (required)")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Report changes without writing")
	cmd.MarkFlagRequired("events")
	return cmd
}

func newRepairPurgeCmd() *cobra.Command {
	var flagDryRun bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove records sharing a composite key",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := withDatabase(flagDryRun, func(records []*hands.Record) ([]*hands.Record, int, error) {
				purged, removed := store.PurgeDuplicates(records)
				return purged, removed, nil
			})
			return exitOnStoreError(err)
		},
	}

	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Report changes without writing")
	return cmd
}

func parseEventList(s string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid event id %q", part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no event ids in %q", s)
	}
	return ids, nil
}

// exitOnStoreError maps store errors onto the documented exit codes.
func exitOnStoreError(err error) error {
	if err == nil {
		return nil
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.Is(err, store.ErrInvariant) {
		os.Exit(pipeline.ExitInvariant)
	}
	os.Exit(pipeline.ExitIO)
	return nil
}
