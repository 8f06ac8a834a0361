package pipeline

import (
	"fmt"
	"io"
	"sync"

	"github.com/hosgoru/handsync/internal/store"
)

// Exit codes for the CLI surface.
const (
	ExitOK        = 0
	ExitInvariant = 1
	ExitNetwork   = 2
	ExitSolver    = 3
	ExitIO        = 4
)

// maxSamples bounds the diagnostics kept per invocation.
const maxSamples = 10

// Summary aggregates per-kind error counts and sample diagnostics across one
// invocation. Parse and deal failures abort only their own unit and never
// change the exit code; fetch, solver, invariant, and i/o failures do.
type Summary struct {
	mu sync.Mutex

	Fetch     int
	Parse     int
	Deal      int
	Solver    int
	Invariant int
	IO        int

	Samples []string

	Stats *store.MergeStats
}

func (s *Summary) add(counter *int, diagnostic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*counter++
	if len(s.Samples) < maxSamples {
		s.Samples = append(s.Samples, diagnostic)
	}
}

func (s *Summary) addFetch(d string)     { s.add(&s.Fetch, d) }
func (s *Summary) addParse(d string)     { s.add(&s.Parse, d) }
func (s *Summary) addDeal(d string)      { s.add(&s.Deal, d) }
func (s *Summary) addSolver(d string)    { s.add(&s.Solver, d) }
func (s *Summary) addInvariant(d string) { s.add(&s.Invariant, d) }
func (s *Summary) addIO(d string)        { s.add(&s.IO, d) }

// ExitCode maps the most severe error kind encountered to the process exit
// code. Severity: i/o and invariant failures halt the run, solver failures
// leave records unenriched, fetch failures lose source data.
func (s *Summary) ExitCode() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.IO > 0:
		return ExitIO
	case s.Invariant > 0:
		return ExitInvariant
	case s.Solver > 0:
		return ExitSolver
	case s.Fetch > 0:
		return ExitNetwork
	}
	return ExitOK
}

// Write prints the human-readable invocation summary.
func (s *Summary) Write(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Stats != nil {
		fmt.Fprintf(w, "inserted %d, upgraded %d, ignored %d, rejected %d\n",
			s.Stats.Inserted, s.Stats.Upgraded, s.Stats.Ignored, s.Stats.Rejected)
		for _, r := range s.Stats.Rejections {
			fmt.Fprintf(w, "  rejected %s: %s\n", r.Key, r.Reason)
		}
	}

	kinds := []struct {
		name  string
		count int
	}{
		{"fetch", s.Fetch},
		{"parse", s.Parse},
		{"deal", s.Deal},
		{"solver", s.Solver},
		{"invariant", s.Invariant},
		{"io", s.IO},
	}
	for _, k := range kinds {
		if k.count > 0 {
			fmt.Fprintf(w, "%s errors: %d\n", k.name, k.count)
		}
	}
	for _, sample := range s.Samples {
		fmt.Fprintf(w, "  %s\n", sample)
	}
}
