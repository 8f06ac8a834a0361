package store

import (
	"fmt"
	"net/url"
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/hosgoru/handsync/internal/bridge"
	"github.com/hosgoru/handsync/internal/hands"
)

// Repairs are explicit, idempotent, and logged. They operate on an in-memory
// database; the caller decides whether to persist (dry runs never do).

var datePattern = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)

// RepairDate rewrites the date on every record of one event, leaving all
// other fields and all other events untouched. Returns the number of records
// changed; already-correct records are not counted, which makes the repair
// idempotent.
func RepairDate(records []*hands.Record, eventID int, date string) (int, error) {
	if !datePattern.MatchString(date) {
		return 0, fmt.Errorf("date %q: want dd.mm.yyyy", date)
	}

	changed := 0
	for _, rec := range records {
		if rec.EventID != eventID || rec.Date == date {
			continue
		}
		logrus.WithFields(logrus.Fields{
			"event": eventID, "board": rec.Board, "from": rec.Date, "to": date,
		}).Info("repair date")
		rec.Date = date
		changed++
	}
	return changed, nil
}

// RepairRotate applies the N↔W, S↔E seat swap uniformly to every record of
// the named events. The deal, the trick table, the LoTT fits, and the optimum
// are all relabeled consistently, so the double-dummy symmetries survive and
// no re-solve is needed. Applied twice the repair is the identity.
func RepairRotate(records []*hands.Record, eventIDs []int) int {
	wanted := make(map[int]bool, len(eventIDs))
	for _, id := range eventIDs {
		wanted[id] = true
	}

	changed := 0
	for _, rec := range records {
		if !wanted[rec.EventID] {
			continue
		}
		rotateRecord(rec)
		changed++
		logrus.WithFields(logrus.Fields{
			"event": rec.EventID, "board": rec.Board,
		}).Info("repair rotate")
	}
	return changed
}

func rotateRecord(rec *hands.Record) {
	rec.N, rec.W = rec.W, rec.N
	rec.S, rec.E = rec.E, rec.S

	if rec.DDAnalysis != nil {
		t := rec.DDAnalysis
		t["N"], t["W"] = t["W"], t["N"]
		t["S"], t["E"] = t["E"], t["S"]
	}
	if rec.LoTT != nil {
		rec.LoTT.NSFit, rec.LoTT.EWFit = rec.LoTT.EWFit, rec.LoTT.NSFit
	}
	if rec.Optimum != nil && rec.Optimum.Declarer != "" {
		opt := rec.Optimum
		if opt.Declarer == "NS" {
			opt.Declarer = "EW"
		} else {
			opt.Declarer = "NS"
		}
		opt.Score = -opt.Score
		opt.Text = fmt.Sprintf("%s %d%s; %+d", opt.Declarer, opt.Tricks, opt.Denom, opt.Score)
	}

	// The stored hands moved, so the viewer encodings must follow.
	if deal, err := rec.Deal(); err == nil {
		rec.LinString = hands.LinString(deal, bridge.Seat(rec.Dealer), rec.Vulnerability)
		rec.BBOURL = hands.BBOViewerURL + "?lin=" + url.QueryEscape(rec.LinString)
	}
}

// PurgeDuplicates drops records sharing a composite key, keeping the first
// occurrence unless a later duplicate is enriched and the kept one is not.
func PurgeDuplicates(records []*hands.Record) ([]*hands.Record, int) {
	byKey := make(map[hands.Key]int, len(records))
	var out []*hands.Record
	removed := 0

	for _, rec := range records {
		idx, seen := byKey[rec.Key()]
		if !seen {
			byKey[rec.Key()] = len(out)
			out = append(out, rec)
			continue
		}
		removed++
		if !out[idx].Enriched() && rec.Enriched() {
			out[idx] = rec
		}
		logrus.WithFields(logrus.Fields{
			"event": rec.EventID, "board": rec.Board,
		}).Info("repair purge duplicate")
	}
	return out, removed
}
