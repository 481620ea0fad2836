// Package store — store.go
//
// BoltDB-backed cache of past analysis runs and FBAS growth snapshots.
//
// Schema (BoltDB bucket layout):
//
//	/runs
//	    key:   UTC RFC3339 timestamp with fixed-width nanoseconds
//	    value: JSON-encoded AnalysisRecord
//
//	/snapshots
//	    key:   RFC3339Nano timestamp + "_" + node count
//	    value: JSON-encoded Fbas snapshot
//
//	/meta
//	    key:   "schema_version"
//	    value: "1"
//
// Consistency model:
//   - Single-process, single-writer (BoltDB does not support concurrent
//     writers).
//   - All writes use ACID transactions (bbolt Tx.Commit()).
//   - Reads use read-only transactions (bbolt.View()).
//   - Checksum validation of the meta pages on database open (bbolt
//     built-in).
//
// This cache is an optional convenience: every internal/fbas and
// internal/simulator API works purely in-memory with zero storage calls.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/octoreflex/fbas-analyzer/internal/fbas"
)

const (
	// DefaultDBPath is the default BoltDB file location.
	DefaultDBPath = "./fbas-analyzer.db"

	// SchemaVersion is the current database schema version.
	SchemaVersion = "1"

	// DefaultRetainRuns is the default number of run records kept by
	// PruneOldRuns.
	DefaultRetainRuns = 100

	bucketRuns      = "runs"
	bucketSnapshots = "snapshots"
	bucketMeta      = "meta"
)

// AnalysisRecord is the persisted summary of one analyzer run.
type AnalysisRecord struct {
	NetworkHash        string        `json:"network_hash"`
	NodeCount          int           `json:"node_count"`
	MinimalQuorumCount int           `json:"minimal_quorum_count"`
	HasIntersection    bool          `json:"has_intersection"`
	Duration           time.Duration `json:"duration"`
	RunAt              time.Time     `json:"run_at"`
}

// Snapshot is the persisted form of a grown Fbas, for later re-analysis.
type Snapshot struct {
	NodeCount int         `json:"node_count"`
	Nodes     []fbas.Node `json:"nodes"`
	TakenAt   time.Time   `json:"taken_at"`
}

// DB wraps a BoltDB instance with typed accessors for fbas-analyzer data.
type DB struct {
	db         *bolt.DB
	retainRuns int
}

// Open opens (or creates) the BoltDB database at the given path. Initialises
// all required buckets and verifies the schema version.
func Open(path string, retainRuns int) (*DB, error) {
	if retainRuns <= 0 {
		retainRuns = DefaultRetainRuns
	}

	bdb, err := bolt.Open(path, 0o600, &bolt.Options{
		Timeout:      5 * time.Second,
		FreelistType: bolt.FreelistArrayType,
	})
	if err != nil {
		return nil, fmt.Errorf("store.Open(%q): %w", path, err)
	}

	d := &DB{db: bdb, retainRuns: retainRuns}

	if err := d.db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bucketRuns, bucketSnapshots, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("CreateBucketIfNotExists(%q): %w", name, err)
			}
		}
		meta := tx.Bucket([]byte(bucketMeta))
		if meta.Get([]byte("schema_version")) == nil {
			if err := meta.Put([]byte("schema_version"), []byte(SchemaVersion)); err != nil {
				return fmt.Errorf("write schema_version: %w", err)
			}
		}
		return nil
	}); err != nil {
		_ = bdb.Close()
		return nil, fmt.Errorf("database initialisation failed: %w", err)
	}

	if err := d.checkSchemaVersion(); err != nil {
		_ = bdb.Close()
		return nil, err
	}

	return d, nil
}

func (d *DB) checkSchemaVersion() error {
	return d.db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket([]byte(bucketMeta))
		v := meta.Get([]byte("schema_version"))
		if string(v) != SchemaVersion {
			return fmt.Errorf(
				"schema version mismatch: database has %q, analyzer requires %q",
				string(v), SchemaVersion)
		}
		return nil
	})
}

// Close closes the underlying BoltDB file.
func (d *DB) Close() error {
	return d.db.Close()
}

// PutRun writes a new AnalysisRecord, keyed by its RunAt timestamp.
func (d *DB) PutRun(rec AnalysisRecord) error {
	if rec.RunAt.IsZero() {
		rec.RunAt = time.Now().UTC()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("PutRun marshal: %w", err)
	}
	// Fixed-width nanoseconds (unlike RFC3339Nano, which trims trailing
	// zeros) so that byte order of keys is chronological order.
	key := []byte(rec.RunAt.UTC().Format("2006-01-02T15:04:05.000000000Z07:00"))

	return d.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketRuns))
		return b.Put(key, data)
	})
}

// ReadRuns returns all stored AnalysisRecords in chronological order.
func (d *DB) ReadRuns() ([]AnalysisRecord, error) {
	var records []AnalysisRecord
	err := d.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketRuns))
		return b.ForEach(func(_, v []byte) error {
			var rec AnalysisRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			records = append(records, rec)
			return nil
		})
	})
	return records, err
}

// PruneOldRuns deletes the oldest run records beyond the most recent
// retainRuns (falling back to d.retainRuns if retainRuns <= 0). Returns the
// number of records deleted.
func (d *DB) PruneOldRuns(retainRuns int) (int, error) {
	if retainRuns <= 0 {
		retainRuns = d.retainRuns
	}

	var deleted int
	err := d.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketRuns))

		var keys [][]byte
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			keyCopy := make([]byte, len(k))
			copy(keyCopy, k)
			keys = append(keys, keyCopy)
		}

		if len(keys) <= retainRuns {
			return nil
		}
		for _, k := range keys[:len(keys)-retainRuns] {
			if err := b.Delete(k); err != nil {
				return fmt.Errorf("PruneOldRuns delete: %w", err)
			}
			deleted++
		}
		return nil
	})
	return deleted, err
}

// PutSnapshot persists a Snapshot of a growing Fbas, keyed by taken-at
// timestamp and node count.
func (d *DB) PutSnapshot(snap Snapshot) error {
	if snap.TakenAt.IsZero() {
		snap.TakenAt = time.Now().UTC()
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("PutSnapshot marshal: %w", err)
	}
	key := snapshotKey(snap.TakenAt, snap.NodeCount)

	return d.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSnapshots))
		return b.Put(key, data)
	})
}

// GetSnapshot retrieves a previously stored snapshot by its exact key
// (taken-at timestamp and node count). Returns (nil, nil) if not found.
func (d *DB) GetSnapshot(takenAt time.Time, nodeCount int) (*Snapshot, error) {
	key := snapshotKey(takenAt, nodeCount)
	var snap Snapshot
	found := false

	err := d.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSnapshots))
		data := b.Get(key)
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &snap)
	})
	if err != nil {
		return nil, fmt.Errorf("GetSnapshot: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &snap, nil
}

func snapshotKey(t time.Time, nodeCount int) []byte {
	return []byte(fmt.Sprintf("%s_%010d", t.UTC().Format(time.RFC3339Nano), nodeCount))
}
