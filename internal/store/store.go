// Package store owns the canonical JSON database: loading with event-id
// normalization, atomic writes, the single-writer lock, merge semantics,
// invariant verification, and the explicit repair operations.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hosgoru/handsync/internal/hands"
)

// ErrIO marks database read/write failures. The previous canonical file is
// never left in a partial state.
var ErrIO = errors.New("database i/o failed")

// ErrInvariant marks a database that fails its invariants; nothing is written
// while it stands.
var ErrInvariant = errors.New("invariant violation")

// ErrLocked is returned when another consolidator holds the lock.
var ErrLocked = errors.New("database is locked")

// Load reads the canonical database. A missing file is an empty database.
// Event ids are normalized to integers: records written by earlier tooling
// with string event_ids are converted on the way in.
func Load(path string) ([]*hands.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrIO, path, err)
	}

	// event_id needs loose decoding; everything else is typed.
	type diskRecord struct {
		hands.Record
		EventID json.RawMessage `json:"event_id"`
	}
	var raw []diskRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrIO, path, err)
	}

	records := make([]*hands.Record, 0, len(raw))
	for i := range raw {
		rec := raw[i].Record
		id, err := normalizeEventID(raw[i].EventID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s record %d: %v", ErrIO, path, i, err)
		}
		rec.EventID = id
		records = append(records, &rec)
	}
	return records, nil
}

// normalizeEventID accepts the integer and legacy string encodings.
func normalizeEventID(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 0, errors.New("missing event_id")
	}
	s := strings.TrimSpace(string(raw))
	s = strings.Trim(s, `"`)
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("event_id %q is not an integer", s)
	}
	return id, nil
}

// Save writes the database atomically: temp file in the same directory,
// fsync, rename over the canonical path. The temp file is removed on any
// failure and the previous database is untouched.
func Save(path string, records []*hands.Record) error {
	if records == nil {
		records = []*hands.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding: %v", ErrIO, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".handsync-*")
	if err != nil {
		return fmt.Errorf("%w: temp file in %s: %v", ErrIO, dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: writing %s: %v", ErrIO, tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: fsync %s: %v", ErrIO, tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: closing %s: %v", ErrIO, tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: renaming over %s: %v", ErrIO, path, err)
	}
	return nil
}

// Lock acquires the single-consolidator lock next to the database with
// O_EXCL semantics. The returned release function is safe to call on all
// exit paths, including after a panic.
func Lock(dbPath string) (release func(), err error) {
	lockPath := dbPath + ".lock"
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, lockPath)
		}
		return nil, fmt.Errorf("%w: acquiring %s: %v", ErrIO, lockPath, err)
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	f.Close()

	return func() { os.Remove(lockPath) }, nil
}
