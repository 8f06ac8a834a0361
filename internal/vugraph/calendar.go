package vugraph

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

// DateUnknown marks an event whose calendar cell carried no identifiable day.
// It never compares equal to a real dd.mm.yyyy date.
const DateUnknown = ""

// CalendarEvent is one scheduled event discovered on the monthly calendar.
type CalendarEvent struct {
	ID   int    `json:"id"`
	Date string `json:"date"` // dd.mm.yyyy, or DateUnknown
	Name string `json:"name"`
}

var eventHrefPattern = regexp.MustCompile(`eventresults\.php\?event=(\d+)`)

// Calendar fetches the month's calendar page and returns the scheduled
// events, deduplicated by event id. An event link outside any dated cell is
// carried forward with DateUnknown. A calendar page with zero event links is
// a parse error: it is the strongest signal the site's schema changed.
func (c *Client) Calendar(ctx context.Context, year, month int) ([]CalendarEvent, error) {
	page := fmt.Sprintf("calendar.php?month=%d&year=%d", month, year)
	html, err := c.get(ctx, page)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: calendar: %v", ErrParse, err)
	}

	var events []CalendarEvent
	byID := make(map[int]int) // event id -> index in events

	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		m := eventHrefPattern.FindStringSubmatch(href)
		if m == nil {
			return
		}
		id, _ := strconv.Atoi(m[1])

		date := DateUnknown
		cell := link.Closest("td.days")
		if cell.Length() > 0 {
			dayText := strings.TrimSpace(cell.Find("td.days2").First().Text())
			if day, err := strconv.Atoi(dayText); err == nil {
				date = fmt.Sprintf("%02d.%02d.%04d", day, month, year)
			}
		}

		if idx, seen := byID[id]; seen {
			// Keep the first sighting but let a dated duplicate fill in
			// an unknown date.
			if events[idx].Date == DateUnknown && date != DateUnknown {
				events[idx].Date = date
			}
			return
		}
		byID[id] = len(events)
		events = append(events, CalendarEvent{
			ID:   id,
			Date: date,
			Name: strings.TrimSpace(link.Text()),
		})
	})

	if len(events) == 0 {
		return nil, fmt.Errorf("%w: calendar %d.%d has no event links", ErrParse, month, year)
	}

	logrus.WithFields(logrus.Fields{
		"year": year, "month": month, "events": len(events),
	}).Info("calendar discovered")
	return events, nil
}
