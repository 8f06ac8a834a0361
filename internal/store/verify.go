package store

import (
	"fmt"
	"strings"

	"github.com/hosgoru/handsync/internal/hands"
)

// Verify enumerates invariant violations across the database: duplicate
// composite keys, hands that fail the 13-card / 52-card partition, and
// enriched records whose trick tables break the double-dummy symmetries.
// A clean database yields nil.
func Verify(records []*hands.Record) []string {
	var violations []string

	seen := make(map[hands.Key]bool, len(records))
	for _, rec := range records {
		key := rec.Key()
		if seen[key] {
			violations = append(violations, fmt.Sprintf("%s: duplicate key", key))
		}
		seen[key] = true

		deal, err := rec.Deal()
		if err == nil {
			err = deal.Validate()
		}
		if err != nil {
			violations = append(violations, fmt.Sprintf("%s: %v", key, err))
		}

		if rec.Enriched() {
			if err := rec.DDAnalysis.Validate(); err != nil {
				violations = append(violations, fmt.Sprintf("%s: %v", key, err))
			}
		}
	}
	return violations
}

// invariantError folds verification output into a single ErrInvariant.
func invariantError(violations []string) error {
	return fmt.Errorf("%w: %s", ErrInvariant, strings.Join(violations, "; "))
}
