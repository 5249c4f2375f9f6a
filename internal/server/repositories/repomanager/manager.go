// Package repomanager vends repository implementations bound to a database
// handle, so services can run the same code inside and outside transactions.
package repomanager

import (
	"context"

	"github.com/krabbypatty1031-blip/JustAsk/internal/dbx"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/repositories/questions"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	// Conn is the non-transactional handle passed to the repository factories.
	Conn() dbx.DBTX
	// InTx runs fn inside a transaction and passes it the transactional handle.
	InTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error
	Users(db dbx.DBTX) users.Repository
	Questions(db dbx.DBTX) questions.Repository
	Close() error
}
