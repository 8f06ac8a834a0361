package vugraph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"
)

const (
	// DefaultBaseURL is the club's vugraph root.
	DefaultBaseURL = "https://clubs.vugraph.com/hosgoru"

	// UserAgent identifies the crawler to the source site.
	UserAgent = "handsync/1.0 (github.com/hosgoru/handsync)"

	// Timeout bounds a single page fetch.
	Timeout = 10 * time.Second

	// DefaultBoardCount is assumed when no pair summary reveals a higher
	// board number.
	DefaultBoardCount = 30

	retryAttempts = 3
)

// ErrFetch marks transient network failures that survived the retry budget.
var ErrFetch = errors.New("fetch failed")

// ErrParse marks pages whose HTML shape diverged from what the parsers expect.
var ErrParse = errors.New("unexpected page shape")

// notFoundSentinels are substrings of the site's soft-404 body, served with
// status 200 in both languages.
var notFoundSentinels = []string{"Page not Found", "Sayfa Bulunamadı"}

// Client fetches pages from the results site.
type Client struct {
	http    *http.Client
	baseURL string

	// newBackOff builds the retry policy per request. Overridden in tests
	// to avoid real sleeps.
	newBackOff func() backoff.BackOff
}

// New creates a client for the given site root, e.g. DefaultBaseURL.
func New(baseURL string) *Client {
	return &Client{
		http:    &http.Client{Timeout: Timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.Multiplier = 2
			b.RandomizationFactor = 0
			return backoff.WithMaxRetries(b, retryAttempts)
		},
	}
}

// get fetches one page and returns its UTF-8 body. Returns "" with a nil
// error on a soft miss. Transport errors and 5xx responses are retried;
// other non-2xx responses fail immediately.
func (c *Client) get(ctx context.Context, path string) (string, error) {
	url := c.baseURL + "/" + path

	var body string
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", UserAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			return err // transport error, retryable
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("status %d", resp.StatusCode))
		}

		decoded, err := io.ReadAll(charmap.ISO8859_9.NewDecoder().Reader(resp.Body))
		if err != nil {
			return err
		}
		body = string(decoded)
		return nil
	}

	err := backoff.Retry(op, backoff.WithContext(c.newBackOff(), ctx))
	if err != nil {
		return "", fmt.Errorf("%w: GET %s: %v", ErrFetch, url, err)
	}

	for _, sentinel := range notFoundSentinels {
		if strings.Contains(body, sentinel) {
			logrus.WithField("url", url).Debug("soft miss")
			return "", nil
		}
	}
	return body, nil
}
