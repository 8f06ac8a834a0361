package vugraph

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

// Pair is one participating pair within an event section.
type Pair struct {
	Number    int    `json:"number"`
	Direction string `json:"direction"` // NS or EW
	Names     string `json:"names"`
	Section   string `json:"section"`
}

// EventIndex describes an event's participants and board range.
type EventIndex struct {
	EventID    int
	Sections   []string
	Pairs      map[string][]Pair // keyed by section
	BoardCount int
}

// AllPairs returns the event's pairs in deterministic order: lexicographic
// section, then ascending pair number.
func (e *EventIndex) AllPairs() []Pair {
	var out []Pair
	for _, section := range e.Sections {
		out = append(out, e.Pairs[section]...)
	}
	return out
}

var (
	pairURLPattern  = regexp.MustCompile(`'([^']*pairsummary\.php[^']*)'`)
	sectionPattern  = regexp.MustCompile(`section=([A-Za-z])`)
	pairNumPattern  = regexp.MustCompile(`pair=(\d+)`)
	directionParam  = regexp.MustCompile(`direction=(NS|EW)`)
	boardNumPattern = regexp.MustCompile(`board=(\d+)`)
)

// EventIndex fetches the event-results page and enumerates its pairs from the
// row onclick handlers. BoardCount starts at DefaultBoardCount; callers
// refine it from pair summaries. An event page that fetches cleanly but
// carries no pair rows yields an index with no pairs.
func (c *Client) EventIndex(ctx context.Context, eventID int) (*EventIndex, error) {
	html, err := c.get(ctx, fmt.Sprintf("eventresults.php?event=%d", eventID))
	if err != nil {
		return nil, err
	}
	if html == "" {
		return nil, fmt.Errorf("%w: event %d not found", ErrParse, eventID)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: event %d: %v", ErrParse, eventID, err)
	}

	idx := &EventIndex{
		EventID:    eventID,
		Pairs:      make(map[string][]Pair),
		BoardCount: DefaultBoardCount,
	}

	doc.Find("tr[onclick]").Each(func(_ int, row *goquery.Selection) {
		onclick, _ := row.Attr("onclick")
		if !strings.Contains(onclick, "pairsummary.php") {
			return
		}
		m := pairURLPattern.FindStringSubmatch(onclick)
		if m == nil {
			return
		}
		href := strings.ReplaceAll(m[1], "&amp;", "&")

		num := pairNumPattern.FindStringSubmatch(href)
		if num == nil {
			return
		}
		pair := Pair{Section: "A", Direction: "NS"}
		pair.Number, _ = strconv.Atoi(num[1])
		if s := sectionPattern.FindStringSubmatch(href); s != nil {
			pair.Section = strings.ToUpper(s[1])
		}
		if d := directionParam.FindStringSubmatch(href); d != nil {
			pair.Direction = d[1]
		}
		pair.Names = pairNames(row)

		idx.Pairs[pair.Section] = append(idx.Pairs[pair.Section], pair)
	})

	for section, pairs := range idx.Pairs {
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].Number < pairs[j].Number })
		idx.Sections = append(idx.Sections, section)
	}
	sort.Strings(idx.Sections)

	logrus.WithFields(logrus.Fields{
		"event": eventID, "sections": len(idx.Sections), "pairs": len(idx.AllPairs()),
	}).Debug("event index fetched")
	return idx, nil
}

// pairNames pulls the two player names out of a pair row. The site renders
// them as a single "NAME - NAME" cell.
func pairNames(row *goquery.Selection) string {
	names := ""
	row.Find("td").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		text := strings.TrimSpace(cell.Text())
		if strings.Contains(text, " - ") {
			names = text
			return false
		}
		return true
	})
	return names
}

// BoardRange fetches a pair-summary page and returns the highest board number
// linked from it, or 0 on a soft miss.
func (c *Client) BoardRange(ctx context.Context, eventID int, section string, pair int, direction string) (int, error) {
	page := fmt.Sprintf("pairsummary.php?event=%d&section=%s&pair=%d&direction=%s",
		eventID, section, pair, direction)
	html, err := c.get(ctx, page)
	if err != nil {
		return 0, err
	}
	if html == "" {
		return 0, nil
	}

	max := 0
	for _, m := range boardNumPattern.FindAllStringSubmatch(html, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > max {
			max = n
		}
	}
	return max, nil
}

// BoardDetail fetches the detail page for one board as seen by one pair.
// Returns "" on a soft miss: pair numbers are sparse across the probed range
// and the caller decides which combinations to try.
func (c *Client) BoardDetail(ctx context.Context, eventID int, section string, pair int, direction string, board int) (string, error) {
	page := fmt.Sprintf("boarddetails.php?event=%d&section=%s&pair=%d&direction=%s&board=%d",
		eventID, section, pair, direction, board)
	return c.get(ctx, page)
}
