// Package storage remembers the last statistics snapshot published for each
// series so unchanged snapshots are not sent twice.
package storage

import (
	"fmt"
	"strings"
	"time"
)

// Store maps a snapshot series key ("all", "website:<id>") to the digest of
// the last snapshot delivered for it.
type Store interface {
	// Seen reports whether digest is the live, unexpired digest for key.
	Seen(key, digest string) (bool, error)
	// Record makes digest the live digest for key until the TTL elapses.
	Record(key, digest string) error
	Close() error
}

// Options controls retention for concrete stores.
type Options struct {
	SnapshotTTL     time.Duration
	CleanupInterval time.Duration
}

const (
	TypeNone  = "none"
	TypeBBolt = "bbolt"

	defaultSnapshotTTL     = 7 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore opens the storage backend named by typ.
func NewStore(typ, path string, opts Options) (Store, error) {
	if opts.SnapshotTTL <= 0 {
		opts.SnapshotTTL = defaultSnapshotTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}

	switch strings.ToLower(strings.TrimSpace(typ)) {
	case "", TypeNone, "disabled":
		return noopStore{}, nil
	case TypeBBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts, time.Now)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

type noopStore struct{}

func (noopStore) Seen(string, string) (bool, error) { return false, nil }
func (noopStore) Record(string, string) error       { return nil }
func (noopStore) Close() error                      { return nil }
