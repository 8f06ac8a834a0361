// Package bridge holds the core card-play domain: seats, suits, hands, deals,
// and the standard per-board dealer and vulnerability cycles.
package bridge
