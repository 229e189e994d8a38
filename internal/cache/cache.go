// Package cache persists per-document index results between builds in a
// bbolt database. A fingerprint hit lets the driver inject the previous
// build's entries instead of reparsing; the in-memory registry stays the
// only state the core ever reads. Writes are transactional, so a crash
// mid-save cannot corrupt previously committed documents.
package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/refdex/refdex/internal/index"
	bolt "go.etcd.io/bbolt"
)

// Bucket and key names. Each document gets its own top-level bucket.
var (
	keyFingerprint = []byte("fingerprint")
	keyEntries     = []byte("entries")
	keySections    = []byte("sections")
)

// Document is the cached result of indexing one source document.
type Document struct {
	Fingerprint string
	Entries     []index.Entry
	Sections    []index.Section
}

// Store is a bbolt-backed document cache.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the cache database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load retrieves the cached result for doc. It returns nil, nil when the
// document has never been cached.
func (s *Store) Load(doc string) (*Document, error) {
	var out *Document
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(doc))
		if b == nil {
			return nil
		}
		d := &Document{Fingerprint: string(b.Get(keyFingerprint))}
		if raw := b.Get(keyEntries); raw != nil {
			if err := json.Unmarshal(raw, &d.Entries); err != nil {
				return fmt.Errorf("unmarshal entries: %w", err)
			}
		}
		if raw := b.Get(keySections); raw != nil {
			if err := json.Unmarshal(raw, &d.Sections); err != nil {
				return fmt.Errorf("unmarshal sections: %w", err)
			}
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Save stores the index result for doc, replacing any previous version.
func (s *Store) Save(doc string, d *Document) error {
	entries, err := json.Marshal(d.Entries)
	if err != nil {
		return fmt.Errorf("marshal entries: %w", err)
	}
	sections, err := json.Marshal(d.Sections)
	if err != nil {
		return fmt.Errorf("marshal sections: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(doc)) != nil {
			if err := tx.DeleteBucket([]byte(doc)); err != nil {
				return err
			}
		}
		b, err := tx.CreateBucket([]byte(doc))
		if err != nil {
			return err
		}
		if err := b.Put(keyFingerprint, []byte(d.Fingerprint)); err != nil {
			return err
		}
		if err := b.Put(keyEntries, entries); err != nil {
			return err
		}
		return b.Put(keySections, sections)
	})
}

// Delete drops the cached result for doc, if any.
func (s *Store) Delete(doc string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(doc)) == nil {
			return nil
		}
		return tx.DeleteBucket([]byte(doc))
	})
}
