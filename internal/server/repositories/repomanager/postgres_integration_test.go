package repomanager

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/krabbypatty1031-blip/JustAsk/internal/dbx"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dsnEnv names a disposable PostgreSQL database. The tests below are skipped
// when it is unset.
const dsnEnv = "JUSTASK_TEST_DATABASE_DSN"

func openTestPostgres(t *testing.T) *PostgresRepositoryManager {
	t.Helper()
	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skipf("%s not set", dsnEnv)
	}
	ctx := context.Background()
	db, err := dbx.OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(16)
	t.Cleanup(func() { _ = db.Close() })

	m := NewPostgresRepositoryManager(db)
	require.NoError(t, m.RunMigrations(ctx))
	return m
}

func seedAnswer(t *testing.T, m *PostgresRepositoryManager) (qid, aid string) {
	t.Helper()
	ctx := context.Background()
	author := models.Author{ID: uuid.NewString(), UserName: "alice"}
	repo := m.Questions(m.Conn())

	q, err := repo.Create(ctx, &models.Question{Title: "t", Content: "c", Author: author})
	require.NoError(t, err)
	a, err := repo.AddAnswer(ctx, q.ID, &models.Answer{Content: "a", Author: author})
	require.NoError(t, err)
	return q.ID, a.ID
}

func TestPostgresThank_OneWinnerPerUser(t *testing.T) {
	m := openTestPostgres(t)
	qid, aid := seedAnswer(t, m)
	repo := m.Questions(m.Conn())
	user := uuid.NewString()

	const n = 32
	var wins atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			ok, err := repo.Thank(context.Background(), qid, aid, user)
			assert.NoError(t, err)
			if ok {
				wins.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	q, err := repo.Get(context.Background(), qid)
	require.NoError(t, err)
	require.Len(t, q.Answers, 1)
	assert.Equal(t, int64(1), q.Answers[0].Thanks)
	assert.Equal(t, []string{user}, q.Answers[0].ThankedBy)
}

func TestPostgresThank_DistinctUsersAllCount(t *testing.T) {
	m := openTestPostgres(t)
	qid, aid := seedAnswer(t, m)
	repo := m.Questions(m.Conn())

	const n = 16
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.Thank(context.Background(), qid, aid, uuid.NewString())
			assert.NoError(t, err)
			assert.True(t, ok)
		}()
	}
	wg.Wait()

	q, err := repo.Get(context.Background(), qid)
	require.NoError(t, err)
	assert.Equal(t, int64(n), q.Answers[0].Thanks)
	assert.Len(t, q.Answers[0].ThankedBy, n)
}
