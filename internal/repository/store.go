package repository

import (
	"context"
	"database/sql"

	"github.com/mmp/beacon-platform/internal/model"
)

// Store is the persistence boundary used by the lifecycle service. Finders
// honor the soft-delete flag transparently: deleted rows are never returned
// and a miss yields (nil, nil) rather than an error.
//
// InTx runs fn against a transaction-bound Store and commits iff fn returns
// nil, so a multi-step mutation (identity change plus beacon reassignment)
// is never observed half-applied.
type Store interface {
	InTx(ctx context.Context, fn func(Store) error) error

	FindIdentityByLoginID(ctx context.Context, loginID string) (*model.Identity, error)
	FindIdentityByID(ctx context.Context, id uint64) (*model.Identity, error)
	CreateIdentity(ctx context.Context, ident *model.Identity) error
	UpdateIdentity(ctx context.Context, ident *model.Identity) error
	SoftDeleteIdentity(ctx context.Context, id uint64) error
	ListIdentities(ctx context.Context, q model.ListQuery) ([]model.Identity, int, error)

	FindCompanyByID(ctx context.Context, id uint64) (*model.Company, error)

	FindBeaconByID(ctx context.Context, id uint64) (*model.Beacon, error)
	FindBeaconByMac(ctx context.Context, mac string) (*model.Beacon, error)
	ListBeaconsByUser(ctx context.Context, userID uint64) ([]model.Beacon, error)
	SetBeaconUser(ctx context.Context, beaconID uint64, userID *uint64) error
}

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// MySQLStore implements Store over a MySQL connection pool.
type MySQLStore struct {
	db *sql.DB
	q  dbtx // the pool, or the active transaction inside InTx
}

// NewMySQLStore binds a store to the given database handle.
func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db, q: db}
}

// InTx begins a transaction and invokes fn with a Store bound to it. A
// non-nil error from fn rolls everything back. Nested calls reuse the
// already-open transaction.
func (s *MySQLStore) InTx(ctx context.Context, fn func(Store) error) error {
	if _, ok := s.q.(*sql.Tx); ok {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&MySQLStore{db: s.db, q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
