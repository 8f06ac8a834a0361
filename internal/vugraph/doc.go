// Package vugraph is the read-only client for the tournament-results site:
// calendar discovery, event indexes, pair summaries, and board detail pages.
//
// The site serves ISO-8859-9; every body is transcoded to UTF-8 before
// parsing. Transient failures are retried with exponential backoff. A 200
// response whose body carries the site's "not found" sentinel is a soft miss
// and is reported as an empty document, not an error. Pair numbers are sparse
// across the probed range and misses are expected.
package vugraph
