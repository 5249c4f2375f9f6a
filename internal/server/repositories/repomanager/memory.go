package repomanager

import (
	"context"

	"github.com/krabbypatty1031-blip/JustAsk/internal/dbx"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/repositories/questions"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/repositories/users"
)

// InMemoryRepositoryManager serves a single set of in-memory repositories.
// The db handles are ignored and InTx offers no rollback.
type InMemoryRepositoryManager struct {
	users     *users.MemoryRepository
	questions *questions.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:     users.NewMemoryRepository(),
		questions: questions.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *InMemoryRepositoryManager) Conn() dbx.DBTX { return nil }

func (m *InMemoryRepositoryManager) InTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return fn(ctx, nil)
}

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *InMemoryRepositoryManager) Questions(dbx.DBTX) questions.Repository { return m.questions }

func (m *InMemoryRepositoryManager) Close() error { return nil }
