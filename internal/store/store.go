// Package store persists the species catalog and the sighting list. Two
// backends share one interface: flat JSONL files, the default, and a SQLite
// database, selected through the settings backend key. Both load whole
// collections into memory and write whole collections back.
package store

import (
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/birdlog/pkg/types"
)

// Backend names accepted by Open.
const (
	BackendJSONL  = "jsonl"
	BackendSQLite = "sqlite"
)

// DatabaseFile is the SQLite database file name inside the data directory.
const DatabaseFile = "birdlog.db"

// Store loads and saves the two collections. Close releases backend
// resources; the JSONL store holds none.
type Store interface {
	LoadCatalog() (*types.Catalog, error)
	SaveCatalog(cat *types.Catalog) error
	LoadSightings() (*types.SightingList, error)
	SaveSightings(l *types.SightingList) error
	Close() error
}

// Open creates the data directory if needed and returns the store for the
// named backend. An empty name selects the JSONL store.
func Open(backend, dataDir string) (Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, types.Wrap(types.IOFailure, err, "creating data directory %s", dataDir)
	}

	switch backend {
	case "", BackendJSONL:
		return NewJSONL(dataDir), nil
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dataDir, DatabaseFile))
	default:
		return nil, types.Errf(types.IOFailure, "backend",
			"unknown storage backend %q", backend)
	}
}
