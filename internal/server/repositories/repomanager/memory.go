package repomanager

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/memstore"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps all state in process memory. It backs the
// "memory" DSN and the service tests.
type MemoryRepositoryManager struct {
	store *memstore.Store
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{store: memstore.New()}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Users() users.Repository { return m.store.Users() }

func (m *MemoryRepositoryManager) Tasks() tasks.Repository { return m.store.Tasks() }

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	return m.store.WithTx(ctx, func(ctx context.Context) error {
		return fn(ctx, Repositories{Users: m.store.Users(), Tasks: m.store.Tasks()})
	})
}

func (m *MemoryRepositoryManager) Close() error { return nil }
