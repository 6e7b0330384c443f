// Package store persists per-user statistics.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/verte-zerg/tuidle/internal/model"
)

// ErrStorageUnavailable wraps every read or write failure of a store.
var ErrStorageUnavailable = errors.New("statistics storage unavailable")

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverJSON     = "json"
)

// Store holds one statistics record per user name.
type Store interface {
	// Load returns the record for userName, or a fresh record when none exists.
	Load(ctx context.Context, userName string) (model.Statistics, error)
	// Save replaces the record with the same user name.
	Save(ctx context.Context, stats model.Statistics) error
	// List returns every record ordered by user name.
	List(ctx context.Context) ([]model.Statistics, error)
	Close() error
}

// Open opens the store for driver. For sqlite and json the dsn is a file
// path whose directory is created on demand; for postgres it is a connection
// string.
func Open(driver, dsn string) (Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("store location is empty")
	}
	switch driver {
	case DriverSQLite, "":
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, err
		}
		return OpenSQL(DriverSQLite, sqliteDSN(dsn))
	case DriverPostgres:
		return OpenSQL(DriverPostgres, dsn)
	case DriverJSON:
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, err
		}
		return NewFile(dsn), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}
