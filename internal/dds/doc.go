// Package dds computes double-dummy enrichment for a deal: the 20-cell trick
// table, the par ("optimum") contract, and the Law-of-Total-Tricks figures.
//
// The pipeline talks to a Solver through a narrow interface so the built-in
// rank-projection solver can be swapped for a cgo DDS binding without touching
// callers. Whatever the implementation, the emitted table must satisfy the
// double-dummy symmetries: within a denomination the two seats of a
// partnership take the same trick count, and the two partnerships' counts sum
// to thirteen.
package dds
