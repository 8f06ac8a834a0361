package store

import (
	"reflect"
	"testing"

	"github.com/hosgoru/handsync/internal/hands"
)

func TestRepairDate(t *testing.T) {
	records := []*hands.Record{
		testRecord(t, 1550, 1),
		testRecord(t, 1550, 2),
		testRecord(t, 1551, 1),
	}

	changed, err := RepairDate(records, 1550, "20.04.2025")
	if err != nil {
		t.Fatalf("RepairDate: %v", err)
	}
	if changed != 2 {
		t.Errorf("changed = %d, want 2", changed)
	}
	if records[0].Date != "20.04.2025" || records[1].Date != "20.04.2025" {
		t.Error("target event dates not rewritten")
	}
	if records[2].Date != "15.03.2025" {
		t.Errorf("other event touched: %q", records[2].Date)
	}

	// Re-running makes no further changes.
	changed, err = RepairDate(records, 1550, "20.04.2025")
	if err != nil || changed != 0 {
		t.Errorf("second run = (%d, %v), want (0, nil)", changed, err)
	}
}

func TestRepairDateFormat(t *testing.T) {
	for _, bad := range []string{"2025-04-20", "20.4.2025", "april", ""} {
		if _, err := RepairDate(nil, 1550, bad); err == nil {
			t.Errorf("date %q accepted", bad)
		}
	}
}

func TestRepairRotate(t *testing.T) {
	rec := enrichedRecord(t, 1550, 1)
	n, w := rec.N, rec.W
	nTricks := rec.DDAnalysis["N"]["S"]

	changed := RepairRotate([]*hands.Record{rec}, []int{1550})
	if changed != 1 {
		t.Fatalf("changed = %d", changed)
	}
	if rec.N != w || rec.W != n {
		t.Error("hands not swapped")
	}
	if rec.DDAnalysis["W"]["S"] != nTricks {
		t.Error("trick table rows not relabeled with the hands")
	}
	if err := rec.DDAnalysis.Validate(); err != nil {
		t.Errorf("rotated table breaks symmetries: %v", err)
	}
	if rec.Optimum.Declarer != "EW" {
		t.Errorf("optimum declarer = %q, want flipped to EW", rec.Optimum.Declarer)
	}
	if deal, err := rec.Deal(); err != nil {
		t.Errorf("rotated record undecodable: %v", err)
	} else if err := deal.Validate(); err != nil {
		t.Errorf("rotated deal invalid: %v", err)
	}
}

func TestRepairRotateTwiceIsIdentity(t *testing.T) {
	rec := enrichedRecord(t, 1550, 1)
	orig := enrichedRecord(t, 1550, 1)

	RepairRotate([]*hands.Record{rec}, []int{1550})
	RepairRotate([]*hands.Record{rec}, []int{1550})

	if !reflect.DeepEqual(rec, orig) {
		t.Errorf("double rotation is not the identity:\n got %+v\nwant %+v", rec, orig)
	}
}

func TestRepairRotateSkipsOtherEvents(t *testing.T) {
	rec := testRecord(t, 1551, 1)
	n := rec.N
	if changed := RepairRotate([]*hands.Record{rec}, []int{1550}); changed != 0 {
		t.Errorf("changed = %d, want 0", changed)
	}
	if rec.N != n {
		t.Error("unlisted event rotated")
	}
}

func TestPurgeDuplicates(t *testing.T) {
	first := testRecord(t, 1550, 1)
	dupe := enrichedRecord(t, 1550, 1)
	other := testRecord(t, 1550, 2)

	out, removed := PurgeDuplicates([]*hands.Record{first, dupe, other})
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if len(out) != 2 {
		t.Fatalf("kept %d records, want 2", len(out))
	}
	if !out[0].Enriched() {
		t.Error("enriched duplicate should replace the unenriched original")
	}

	// Both enriched: the first sighting stays.
	a := enrichedRecord(t, 1551, 1)
	a.Date = "01.01.2025"
	b := enrichedRecord(t, 1551, 1)
	out, removed = PurgeDuplicates([]*hands.Record{a, b})
	if removed != 1 || out[0].Date != "01.01.2025" {
		t.Errorf("first enriched record should win: removed=%d date=%q", removed, out[0].Date)
	}
}
