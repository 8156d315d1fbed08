package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var seriesBucket = []byte("series")

var errBucketMissing = errors.New("series bucket missing")

// A record is an 8 byte big-endian unix expiry followed by the digest.
const expiryLen = 8

type boltStore struct {
	db  *bolt.DB
	ttl time.Duration
	now func() time.Time

	sweepEvery time.Duration
	sweepMu    sync.Mutex
	lastSweep  time.Time
}

func openBolt(path string, opts Options, now func() time.Time) (*boltStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(seriesBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init bbolt bucket: %w", err)
	}

	return &boltStore{
		db:         db,
		ttl:        opts.SnapshotTTL,
		now:        now,
		sweepEvery: opts.CleanupInterval,
		lastSweep:  now(),
	}, nil
}

func (b *boltStore) Close() error {
	return b.db.Close()
}

func (b *boltStore) Seen(key, digest string) (bool, error) {
	now := b.now()
	if err := b.sweep(now); err != nil {
		return false, err
	}

	var live string
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(seriesBucket)
		if bucket == nil {
			return errBucketMissing
		}
		if d, ok := decodeRecord(bucket.Get([]byte(key)), now); ok {
			live = d
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("lookup %s: %w", key, err)
	}
	return live != "" && live == digest, nil
}

func (b *boltStore) Record(key, digest string) error {
	now := b.now()
	if err := b.sweep(now); err != nil {
		return err
	}

	rec := make([]byte, expiryLen+len(digest))
	binary.BigEndian.PutUint64(rec, uint64(now.Add(b.ttl).Unix()))
	copy(rec[expiryLen:], digest)

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(seriesBucket)
		if bucket == nil {
			return errBucketMissing
		}
		return bucket.Put([]byte(key), rec)
	})
	if err != nil {
		return fmt.Errorf("record %s: %w", key, err)
	}
	return nil
}

// sweep drops expired series at most once per sweepEvery.
func (b *boltStore) sweep(now time.Time) error {
	b.sweepMu.Lock()
	defer b.sweepMu.Unlock()
	if now.Sub(b.lastSweep) < b.sweepEvery {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(seriesBucket)
		if bucket == nil {
			return errBucketMissing
		}
		var expired [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			if _, ok := decodeRecord(v, now); !ok {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range expired {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sweep expired series: %w", err)
	}
	b.lastSweep = now
	return nil
}

// decodeRecord returns the stored digest when rec is well formed and live at now.
func decodeRecord(rec []byte, now time.Time) (string, bool) {
	if len(rec) <= expiryLen {
		return "", false
	}
	expiry := time.Unix(int64(binary.BigEndian.Uint64(rec[:expiryLen])), 0)
	if !expiry.After(now) {
		return "", false
	}
	return string(rec[expiryLen:]), true
}
