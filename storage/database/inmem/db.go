package inmemdb

import (
	"sync"

	"github.com/trezcool/darasa/core/attendance"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/profile"
)

// DB is an in-memory store used in tests and local runs. A single lock
// covers all tables so the identity-to-profile materialization behaves like
// the backend-side trigger it stands in for.
type DB struct {
	mu         sync.RWMutex
	identities map[string]*profile.Identity // keyed by login key
	profiles   map[string]*profile.Profile  // keyed by profile ID
	courses    map[string]*course.Course    // keyed by course ID
	records    map[string]*attendance.Record
}

func Open() *DB {
	return &DB{
		identities: make(map[string]*profile.Identity),
		profiles:   make(map[string]*profile.Profile),
		courses:    make(map[string]*course.Course),
		records:    make(map[string]*attendance.Record),
	}
}

// Identities returns a snapshot of all login identities.
func (db *DB) Identities() []profile.Identity {
	db.mu.RLock()
	defer db.mu.RUnlock()

	idents := make([]profile.Identity, 0, len(db.identities))
	for _, ident := range db.identities {
		idents = append(idents, *ident)
	}
	return idents
}
