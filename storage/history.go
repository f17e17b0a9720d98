// Package storage persists report-run history so consecutive runs can
// be compared: which workspaces turned unused since the last run, and
// when a workspace was first or last seen.
package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/btree"
	"go.etcd.io/bbolt"

	"github.com/fleetgrid/wsreport/types"
)

// Bucket names in bbolt.
var (
	bucketObservations = []byte("observations")
	bucketMeta         = []byte("meta")
)

var keyCurrentRun = []byte("current_run")

// Store keeps one observation per workspace per run on disk, plus an
// in-memory index over the latest state of each workspace.
type Store struct {
	mu sync.RWMutex

	index *btree.BTreeG[*WorkspaceState]
	db    *bbolt.DB

	currentRun int64
}

// WorkspaceState is the latest known state of one workspace across runs.
type WorkspaceState struct {
	WorkspaceID  string
	UserName     string
	FirstSeenRun int64
	LastSeenRun  int64
	Unused       bool
	Failed       bool
}

// observation is the on-disk record for one workspace in one run.
type observation struct {
	WorkspaceID string    `json:"workspace_id"`
	UserName    string    `json:"user_name"`
	Unused      bool      `json:"unused"`
	Failed      bool      `json:"failed"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// Open opens (or creates) the history database under dir.
func Open(dir string) (*Store, error) {
	dbPath := filepath.Join(dir, "wsreport.db")

	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range [][]byte{bucketObservations, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{
		index: btree.NewG[*WorkspaceState](32, func(a, b *WorkspaceState) bool {
			return a.WorkspaceID < b.WorkspaceID
		}),
		db: db,
	}

	if err := s.loadRun(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.rebuildIndex(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun stores the outcome of one finished report run atomically
// and returns the run number it was recorded under.
func (s *Store) RecordRun(rows []types.ReportRow) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentRun++
	run := s.currentRun
	now := time.Now()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketObservations)

		for i := range rows {
			obs := observation{
				WorkspaceID: rows[i].Workspace.ID,
				UserName:    rows[i].Workspace.UserName,
				Unused:      rows[i].Activity.Unused,
				Failed:      rows[i].Failed(),
				RecordedAt:  now,
			}
			value, err := json.Marshal(obs)
			if err != nil {
				return err
			}
			if err := bucket.Put(makeObservationKey(run, obs.WorkspaceID), value); err != nil {
				return err
			}
		}

		return tx.Bucket(bucketMeta).Put(keyCurrentRun, int64ToBytes(run))
	})
	if err != nil {
		s.currentRun--
		return 0, err
	}

	for i := range rows {
		s.updateIndex(&rows[i], run)
	}

	return run, nil
}

// NewlyUnused returns the workspace IDs that are unused in the given
// rows but were not unused the last time they were recorded. Workspaces
// never seen before do not count: there is no previous run to compare
// against. Call before RecordRun for the same rows.
func (s *Store) NewlyUnused(rows []types.ReportRow) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for i := range rows {
		if !rows[i].Activity.Unused {
			continue
		}
		probe := &WorkspaceState{WorkspaceID: rows[i].Workspace.ID}
		prev, found := s.index.Get(probe)
		if found && !prev.Unused && !prev.Failed {
			ids = append(ids, rows[i].Workspace.ID)
		}
	}
	return ids
}

// WorkspaceHistory returns the latest known state of a workspace.
func (s *Store) WorkspaceHistory(workspaceID string) (*WorkspaceState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	probe := &WorkspaceState{WorkspaceID: workspaceID}
	state, found := s.index.Get(probe)
	if !found {
		return nil, fmt.Errorf("workspace %s has no recorded history", workspaceID)
	}
	return state, nil
}

// CurrentRun returns the most recent run number.
func (s *Store) CurrentRun() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentRun
}

// Compact deletes observations older than the most recent keepRuns runs.
func (s *Store) Compact(keepRuns int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.currentRun - keepRuns
	if cutoff <= 0 {
		return nil
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketObservations)
		c := bucket.Cursor()

		var toDelete [][]byte
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			run, _ := parseObservationKey(k)
			if run <= cutoff {
				toDelete = append(toDelete, k)
			}
		}

		for _, key := range toDelete {
			if err := bucket.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) updateIndex(row *types.ReportRow, run int64) {
	probe := &WorkspaceState{WorkspaceID: row.Workspace.ID}
	existing, found := s.index.Get(probe)

	if !found {
		existing = &WorkspaceState{
			WorkspaceID:  row.Workspace.ID,
			FirstSeenRun: run,
		}
	}
	existing.UserName = row.Workspace.UserName
	existing.LastSeenRun = run
	existing.Unused = row.Activity.Unused
	existing.Failed = row.Failed()

	s.index.ReplaceOrInsert(existing)
}

func (s *Store) loadRun() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get(keyCurrentRun)
		if data != nil {
			s.currentRun = bytesToInt64(data)
		}
		return nil
	})
}

// rebuildIndex replays all observations in run order so the in-memory
// index survives restarts.
func (s *Store) rebuildIndex() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketObservations).Cursor()

		// Keys sort by run first, so later observations win.
		for k, v := c.First(); k != nil; k, v = c.Next() {
			run, _ := parseObservationKey(k)

			var obs observation
			if err := json.Unmarshal(v, &obs); err != nil {
				return fmt.Errorf("corrupt observation %s: %w", k, err)
			}

			probe := &WorkspaceState{WorkspaceID: obs.WorkspaceID}
			existing, found := s.index.Get(probe)
			if !found {
				existing = &WorkspaceState{
					WorkspaceID:  obs.WorkspaceID,
					FirstSeenRun: run,
				}
			}
			existing.UserName = obs.UserName
			existing.LastSeenRun = run
			existing.Unused = obs.Unused
			existing.Failed = obs.Failed
			s.index.ReplaceOrInsert(existing)
		}
		return nil
	})
}

func makeObservationKey(run int64, workspaceID string) []byte {
	return []byte(fmt.Sprintf("%016d:%s", run, workspaceID))
}

func parseObservationKey(key []byte) (int64, string) {
	var run int64
	var id string
	fmt.Sscanf(string(key), "%016d:%s", &run, &id)
	return run, id
}

func int64ToBytes(v int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(v))
	return buf
}

func bytesToInt64(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b))
}
