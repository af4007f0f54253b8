package snapshot

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Store holds snapshots in memory, versioned per database. Versions start
// at 1 and increment per database; the store is the process's working set,
// not durable storage; export handles persistence.
type Store struct {
	mu       sync.RWMutex
	byID     map[uuid.UUID]*Snapshot
	byDB     map[string][]*Snapshot
	versions map[string]uint64
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		byID:     map[uuid.UUID]*Snapshot{},
		byDB:     map[string][]*Snapshot{},
		versions: map[string]uint64{},
	}
}

// Save assigns snap the next version for its database and stores it.
func (st *Store) Save(snap *Snapshot) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.versions[snap.Database]++
	snap.Version = st.versions[snap.Database]
	st.byID[snap.ID] = snap
	st.byDB[snap.Database] = append(st.byDB[snap.Database], snap)
}

// Get returns the snapshot with the given ID.
func (st *Store) Get(id uuid.UUID) (*Snapshot, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	snap, ok := st.byID[id]
	return snap, ok
}

// List returns metadata for one database's snapshots, newest first.
func (st *Store) List(database string) []Metadata {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return metaSorted(st.byDB[database])
}

// ListAll returns metadata for every stored snapshot, newest first.
func (st *Store) ListAll() []Metadata {
	st.mu.RLock()
	defer st.mu.RUnlock()

	all := make([]*Snapshot, 0, len(st.byID))
	for _, snap := range st.byID {
		all = append(all, snap)
	}
	return metaSorted(all)
}

func metaSorted(snaps []*Snapshot) []Metadata {
	out := make([]Metadata, len(snaps))
	for i, snap := range snaps {
		out[i] = snap.Meta()
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Database != out[j].Database {
			return out[i].Database < out[j].Database
		}
		return out[i].Version > out[j].Version
	})
	return out
}
