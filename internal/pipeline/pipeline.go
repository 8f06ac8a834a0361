// Package pipeline drives one ingest invocation: calendar discovery, event
// indexing, board probing, deal extraction, double-dummy enrichment, and the
// final serial consolidation into the canonical database.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hosgoru/handsync/internal/bridge"
	"github.com/hosgoru/handsync/internal/dds"
	"github.com/hosgoru/handsync/internal/extract"
	"github.com/hosgoru/handsync/internal/hands"
	"github.com/hosgoru/handsync/internal/store"
	"github.com/hosgoru/handsync/internal/vugraph"
)

// DefaultWorkers bounds concurrent event harvesting.
const DefaultWorkers = 8

// DefaultDelay is the politeness pause between board fetches.
const DefaultDelay = 50 * time.Millisecond

// Source is the slice of the vugraph client the pipeline consumes, split out
// so tests can stub the site.
type Source interface {
	Calendar(ctx context.Context, year, month int) ([]vugraph.CalendarEvent, error)
	EventIndex(ctx context.Context, eventID int) (*vugraph.EventIndex, error)
	BoardRange(ctx context.Context, eventID int, section string, pair int, direction string) (int, error)
	BoardDetail(ctx context.Context, eventID int, section string, pair int, direction string, board int) (string, error)
}

// Options configures one ingest run.
type Options struct {
	Year    int
	Month   int
	DBPath  string
	Workers int
	Delay   time.Duration

	// Source and Solver default to the real client and the built-in
	// solver; tests inject stubs.
	Source Source
	Solver dds.Solver

	BaseURL string
}

func (o *Options) withDefaults() Options {
	out := *o
	if out.Workers <= 0 {
		out.Workers = DefaultWorkers
	}
	if out.BaseURL == "" {
		out.BaseURL = vugraph.DefaultBaseURL
	}
	if out.Source == nil {
		out.Source = vugraph.New(out.BaseURL)
	}
	if out.Solver == nil {
		out.Solver = dds.NewRankSolver()
	}
	return out
}

// Ingest runs the full pipeline for one month. Stages up to enrichment run
// concurrently across events under a bounded pool; consolidation is strictly
// serial under the database lock. On cancellation, in-flight items finish,
// queued work is dropped, and nothing is written.
func Ingest(ctx context.Context, opts Options) (*Summary, error) {
	opts = opts.withDefaults()
	summary := &Summary{}

	events, err := opts.Source.Calendar(ctx, opts.Year, opts.Month)
	if err != nil {
		switch {
		case errors.Is(err, vugraph.ErrParse):
			// An event-free calendar page. The database stays as it
			// was; nothing to consolidate.
			logrus.WithError(err).Warn("calendar yielded no events")
			summary.addParse(err.Error())
			return summary, nil
		case errors.Is(err, vugraph.ErrFetch):
			summary.addFetch(err.Error())
			return summary, err
		default:
			return summary, err
		}
	}

	// One solver lane: the solver interface is not assumed re-entrant.
	var solverMu sync.Mutex

	var batchMu sync.Mutex
	var batch []*hands.Record

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for _, ev := range events {
		ev := ev
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil // queued item dropped on cancellation
			}
			records := harvestEvent(gctx, opts, ev, summary, &solverMu)
			batchMu.Lock()
			batch = append(batch, records...)
			batchMu.Unlock()
			return nil
		})
	}
	g.Wait()

	if ctx.Err() != nil {
		// Half-built batches are discarded entirely, never merged.
		logrus.Warn("ingest cancelled, discarding batch")
		return summary, ctx.Err()
	}

	release, err := store.Lock(opts.DBPath)
	if err != nil {
		summary.addIO(err.Error())
		return summary, err
	}
	defer release()

	stats, err := store.Consolidate(opts.DBPath, batch)
	summary.Stats = stats
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvariant):
			summary.addInvariant(err.Error())
		default:
			summary.addIO(err.Error())
		}
		return summary, err
	}
	return summary, nil
}

// harvestEvent fetches one event's boards, extracting and enriching a record
// per board. Every failure is caught at its own unit: a bad event aborts only
// that event, a bad board only that board.
func harvestEvent(ctx context.Context, opts Options, ev vugraph.CalendarEvent, summary *Summary, solverMu *sync.Mutex) []*hands.Record {
	log := logrus.WithFields(logrus.Fields{"event": ev.ID, "date": ev.Date})

	idx, err := opts.Source.EventIndex(ctx, ev.ID)
	if err != nil {
		classifySourceError(summary, err)
		log.WithError(err).Warn("event index failed, skipping event")
		return nil
	}

	probes := probeSet(idx)
	boardCount := discoverBoardCount(ctx, opts, idx, probes, summary)

	var records []*hands.Record
	for board := 1; board <= boardCount; board++ {
		if ctx.Err() != nil {
			return records
		}
		rec := harvestBoard(ctx, opts, ev, probes, board, summary, solverMu)
		if rec != nil {
			records = append(records, rec)
		}
	}
	log.WithField("boards", len(records)).Info("event harvested")
	return records
}

// probeSet decides which (section, pair, direction) combinations to try per
// board. The event index drives it when pair rows were found; otherwise fall
// back to a blind sweep of the usual sections and pair range, relying on
// soft misses for the gaps.
func probeSet(idx *vugraph.EventIndex) []vugraph.Pair {
	if pairs := idx.AllPairs(); len(pairs) > 0 {
		return pairs
	}
	var pairs []vugraph.Pair
	for _, section := range []string{"A", "B"} {
		for n := 1; n <= 24; n++ {
			pairs = append(pairs, vugraph.Pair{Number: n, Direction: "NS", Section: section})
		}
	}
	return pairs
}

// discoverBoardCount probes pair summaries for the highest linked board
// number, defaulting to the index's count when no page is accessible.
func discoverBoardCount(ctx context.Context, opts Options, idx *vugraph.EventIndex, probes []vugraph.Pair, summary *Summary) int {
	count := idx.BoardCount
	for _, p := range probes {
		if ctx.Err() != nil {
			return count
		}
		max, err := opts.Source.BoardRange(ctx, idx.EventID, p.Section, p.Number, p.Direction)
		if err != nil {
			classifySourceError(summary, err)
			continue
		}
		if max > 0 {
			if max > count {
				count = max
			}
			return count
		}
	}
	return count
}

// harvestBoard probes pairs until one page yields a deal. A soft miss moves
// on to the next pair; a malformed or misdealt page rejects the whole board.
func harvestBoard(ctx context.Context, opts Options, ev vugraph.CalendarEvent, probes []vugraph.Pair, board int, summary *Summary, solverMu *sync.Mutex) *hands.Record {
	for _, p := range probes {
		if ctx.Err() != nil {
			return nil
		}
		if opts.Delay > 0 {
			time.Sleep(opts.Delay)
		}

		html, err := opts.Source.BoardDetail(ctx, ev.ID, p.Section, p.Number, p.Direction, board)
		if err != nil {
			classifySourceError(summary, err)
			return nil
		}
		if html == "" {
			continue // sparse pair range, try the next
		}

		page, err := extract.Page(html)
		switch {
		case errors.Is(err, extract.ErrDeal):
			summary.addDeal(fmt.Sprintf("event %d board %d: %v", ev.ID, board, err))
			logrus.WithError(err).WithFields(logrus.Fields{
				"event": ev.ID, "board": board,
			}).Warn("misdealt board rejected")
			return nil
		case err != nil:
			summary.addParse(fmt.Sprintf("event %d board %d: %v", ev.ID, board, err))
			return nil
		}

		rec := hands.New(ev.ID, board, ev.Date, page.Deal)
		rec.Results = page.Results
		enrich(rec, page.Deal, opts.Solver, summary, solverMu)
		return rec
	}
	return nil
}

// enrich attaches the double-dummy analysis. Solver failure leaves the record
// unenriched; a later invocation retries it.
func enrich(rec *hands.Record, deal *bridge.Deal, solver dds.Solver, summary *Summary, solverMu *sync.Mutex) {
	solverMu.Lock()
	analysis, err := solver.Solve(deal, bridge.Seat(rec.Dealer), rec.Vulnerability)
	solverMu.Unlock()
	if err != nil {
		summary.addSolver(fmt.Sprintf("event %d board %d: %v", rec.EventID, rec.Board, err))
		logrus.WithError(err).WithFields(logrus.Fields{
			"event": rec.EventID, "board": rec.Board,
		}).Warn("solver failed, record left unenriched")
		return
	}
	if err := analysis.Table.Validate(); err != nil {
		summary.addSolver(fmt.Sprintf("event %d board %d: %v", rec.EventID, rec.Board, err))
		return
	}
	rec.Attach(analysis)
}

// classifySourceError buckets a client error into the summary.
func classifySourceError(summary *Summary, err error) {
	switch {
	case errors.Is(err, vugraph.ErrParse):
		summary.addParse(err.Error())
	default:
		summary.addFetch(err.Error())
	}
}
