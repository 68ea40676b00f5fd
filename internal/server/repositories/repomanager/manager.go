// Package repomanager hands out repository implementations for the selected
// storage backend and runs groups of repository calls in one transaction.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
)

// MemoryDSN selects the in-process backend instead of Postgres.
const MemoryDSN = "memory"

// Repositories groups repositories that share one transaction.
type Repositories struct {
	Users users.Repository
	Tasks tasks.Repository
}

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Tasks() tasks.Repository
	// WithTx runs fn with repositories bound to a single transaction that is
	// committed when fn returns nil.
	WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
	Close() error
}

// New opens the backend named by dsn: MemoryDSN or an empty string yields
// the in-memory manager, anything else is treated as a Postgres DSN.
func New(ctx context.Context, dsn string) (RepositoryManager, error) {
	if dsn == "" || dsn == MemoryDSN {
		return NewMemoryRepositoryManager(), nil
	}
	return OpenPostgres(ctx, dsn)
}
