package vugraph

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const eventFixture = `<html><body>
<table class="results">
<tr><th>Sıra</th><th>Çift</th><th>%</th></tr>
<tr onclick="document.location='pairsummary.php?event=1550&amp;section=A&amp;pair=3&amp;direction=NS'">
<td>1</td><td>AYSE YILMAZ - MEHMET DEMIR</td><td>62,50</td></tr>
<tr onclick="document.location='pairsummary.php?event=1550&amp;section=A&amp;pair=1&amp;direction=EW'">
<td>2</td><td>FATMA KAYA - ALI CELIK</td><td>58,33</td></tr>
<tr onclick="document.location='pairsummary.php?event=1550&amp;section=B&amp;pair=2&amp;direction=NS'">
<td>3</td><td>ZEYNEP ARSLAN - HASAN DOGAN</td><td>55,00</td></tr>
<tr onclick="document.location='news.php?id=9'"><td>4</td><td>x - y</td><td>0</td></tr>
</table>
</body></html>`

func TestEventIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeISO(t, w, eventFixture)
	}))
	defer srv.Close()

	idx, err := testClient(srv.URL).EventIndex(context.Background(), 1550)
	if err != nil {
		t.Fatalf("EventIndex: %v", err)
	}
	if idx.EventID != 1550 || idx.BoardCount != DefaultBoardCount {
		t.Errorf("index header = %+v", idx)
	}
	if len(idx.Sections) != 2 || idx.Sections[0] != "A" || idx.Sections[1] != "B" {
		t.Fatalf("sections = %v", idx.Sections)
	}

	pairs := idx.AllPairs()
	want := []Pair{
		{Number: 1, Direction: "EW", Names: "FATMA KAYA - ALI CELIK", Section: "A"},
		{Number: 3, Direction: "NS", Names: "AYSE YILMAZ - MEHMET DEMIR", Section: "A"},
		{Number: 2, Direction: "NS", Names: "ZEYNEP ARSLAN - HASAN DOGAN", Section: "B"},
	}
	if len(pairs) != len(want) {
		t.Fatalf("got %d pairs, want %d: %+v", len(pairs), len(want), pairs)
	}
	for i, w := range want {
		if pairs[i] != w {
			t.Errorf("pair[%d] = %+v, want %+v", i, pairs[i], w)
		}
	}
}

func TestEventIndexSoftMiss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeISO(t, w, "<html><body>Page not Found</body></html>")
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).EventIndex(context.Background(), 9999)
	if !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v, want ErrParse for a missing event", err)
	}
}

func TestBoardRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "event=1550&section=A&pair=3&direction=NS" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		writeISO(t, w, `<html><body>
<a href="boarddetails.php?event=1550&section=A&pair=3&board=1">1</a>
<a href="boarddetails.php?event=1550&section=A&pair=3&board=27">27</a>
<a href="boarddetails.php?event=1550&section=A&pair=3&board=30">30</a>
</body></html>`)
	}))
	defer srv.Close()

	n, err := testClient(srv.URL).BoardRange(context.Background(), 1550, "A", 3, "NS")
	if err != nil {
		t.Fatalf("BoardRange: %v", err)
	}
	if n != 30 {
		t.Errorf("board range = %d, want 30", n)
	}
}

func TestBoardRangeSoftMiss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeISO(t, w, "Sayfa Bulunamadı")
	}))
	defer srv.Close()

	n, err := testClient(srv.URL).BoardRange(context.Background(), 1550, "A", 41, "NS")
	if err != nil || n != 0 {
		t.Errorf("soft miss = (%d, %v), want (0, nil)", n, err)
	}
}

func TestBoardDetailSoftMiss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeISO(t, w, "Page not Found")
	}))
	defer srv.Close()

	html, err := testClient(srv.URL).BoardDetail(context.Background(), 1550, "A", 1, "NS", 31)
	if err != nil || html != "" {
		t.Errorf("soft miss = (%q, %v), want empty body with nil error", html, err)
	}
}
