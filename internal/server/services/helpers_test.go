package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/krabbypatty1031-blip/JustAsk/internal/cryptox"
	"github.com/krabbypatty1031-blip/JustAsk/internal/dbx"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/auth"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/models"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/repositories/questions"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/repositories/repomanager"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	ts, err := auth.NewTokenService("access-secret", "refresh-secret", time.Minute, time.Hour)
	require.NoError(t, err)
	return ts
}

func newUserService(t *testing.T, m repomanager.RepositoryManager) (*UserService, *auth.RevocationRegistry) {
	t.Helper()
	revoked := auth.NewRevocationRegistry(auth.DefaultRevocationHighWater, auth.DefaultRevocationKeep)
	return NewUserService(m, newTokens(t), revoked, cryptox.NewHasher(bcrypt.MinCost)), revoked
}

// brokenManager fails every repository call.
type brokenManager struct {
	repomanager.InMemoryRepositoryManager
	err error
}

func (b *brokenManager) InTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return fn(ctx, nil)
}
func (b *brokenManager) Users(dbx.DBTX) users.Repository         { return brokenUsers{b.err} }
func (b *brokenManager) Questions(dbx.DBTX) questions.Repository { return brokenQuestions{b.err} }

var errStorage = errors.New("storage down")

type brokenUsers struct{ err error }

func (b brokenUsers) Create(context.Context, *models.User) (*models.User, error) { return nil, b.err }
func (b brokenUsers) GetByID(context.Context, string) (*models.User, error)      { return nil, b.err }
func (b brokenUsers) GetByUsernameAndPhone(context.Context, string, string) (*models.User, error) {
	return nil, b.err
}
func (b brokenUsers) FindConflict(context.Context, string, string) error { return b.err }

type brokenQuestions struct{ err error }

func (b brokenQuestions) List(context.Context) ([]models.Question, error)       { return nil, b.err }
func (b brokenQuestions) Get(context.Context, string) (*models.Question, error) { return nil, b.err }
func (b brokenQuestions) IncrementViews(context.Context, string) error          { return b.err }
func (b brokenQuestions) AnswerExists(context.Context, string, string) (bool, error) {
	return false, b.err
}
func (b brokenQuestions) Create(context.Context, *models.Question) (*models.Question, error) {
	return nil, b.err
}
func (b brokenQuestions) AddAnswer(context.Context, string, *models.Answer) (*models.Answer, error) {
	return nil, b.err
}
func (b brokenQuestions) Thank(context.Context, string, string, string) (bool, error) {
	return false, b.err
}
