package store

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/hosgoru/handsync/internal/hands"
)

// Rejection records why an incoming record was refused.
type Rejection struct {
	Key    hands.Key `json:"key"`
	Reason string    `json:"reason"`
}

// MergeStats is the ingest log for one consolidation.
type MergeStats struct {
	Inserted   int         `json:"inserted"`
	Upgraded   int         `json:"upgraded"`
	Ignored    int         `json:"ignored"`
	Rejected   int         `json:"rejected"`
	Rejections []Rejection `json:"rejections,omitempty"`
}

// Log emits the ingest log through the structured logger.
func (s *MergeStats) Log() {
	logrus.WithFields(logrus.Fields{
		"inserted": s.Inserted,
		"upgraded": s.Upgraded,
		"ignored":  s.Ignored,
		"rejected": s.Rejected,
	}).Info("consolidation complete")
	for _, r := range s.Rejections {
		logrus.WithFields(logrus.Fields{
			"event": r.Key.EventID, "board": r.Key.Board, "reason": r.Reason,
		}).Warn("record rejected")
	}
}

// Merge folds incoming records into the database under first-writer-wins
// enrichment semantics:
//
//   - unknown key: insert
//   - known key, stored record unenriched, incoming enriched: upgrade
//   - known key, stored record enriched: ignore (a good record is never
//     overwritten by a re-ingested one)
//
// Incoming records failing the 52-card partition are rejected, never stored.
// Incoming order is made deterministic by sorting on (event_id, board); the
// returned database is sorted the same way.
func Merge(existing, incoming []*hands.Record) ([]*hands.Record, *MergeStats) {
	stats := &MergeStats{}

	byKey := make(map[hands.Key]int, len(existing))
	merged := make([]*hands.Record, len(existing))
	copy(merged, existing)
	for i, rec := range merged {
		byKey[rec.Key()] = i
	}

	queue := make([]*hands.Record, len(incoming))
	copy(queue, incoming)
	sort.Slice(queue, func(i, j int) bool {
		if queue[i].EventID != queue[j].EventID {
			return queue[i].EventID < queue[j].EventID
		}
		return queue[i].Board < queue[j].Board
	})

	for _, rec := range queue {
		deal, err := rec.Deal()
		if err == nil {
			err = deal.Validate()
		}
		if err != nil {
			stats.Rejected++
			stats.Rejections = append(stats.Rejections, Rejection{Key: rec.Key(), Reason: err.Error()})
			continue
		}

		idx, known := byKey[rec.Key()]
		switch {
		case !known:
			byKey[rec.Key()] = len(merged)
			merged = append(merged, rec)
			stats.Inserted++
		case !merged[idx].Enriched() && rec.Enriched():
			merged[idx] = rec
			stats.Upgraded++
		default:
			stats.Ignored++
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].EventID != merged[j].EventID {
			return merged[i].EventID < merged[j].EventID
		}
		return merged[i].Board < merged[j].Board
	})
	return merged, stats
}

// Consolidate is the serial merge-verify-write step: load the canonical
// database, fold in the incoming batch, verify the post-merge invariants, and
// write atomically. On an invariant violation nothing is written.
func Consolidate(path string, incoming []*hands.Record) (*MergeStats, error) {
	existing, err := Load(path)
	if err != nil {
		return nil, err
	}

	merged, stats := Merge(existing, incoming)

	if violations := Verify(merged); len(violations) > 0 {
		return stats, invariantError(violations)
	}
	if err := Save(path, merged); err != nil {
		return stats, err
	}
	stats.Log()
	return stats, nil
}
