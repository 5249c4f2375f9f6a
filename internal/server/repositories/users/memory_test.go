package users

import (
	"context"
	"testing"

	"github.com/krabbypatty1031-blip/JustAsk/internal/common"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	u, err := r.Create(ctx, &models.User{UserName: "alice", Phone: "12345678", PasswordHash: "d"})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, *u, *got)

	got, err = r.GetByUsernameAndPhone(ctx, "alice", "12345678")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = r.GetByUsernameAndPhone(ctx, "alice", "87654321")
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = r.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, r.FindConflict(ctx, "alice", "00000000"), ErrUsernameTaken)
	assert.ErrorIs(t, r.FindConflict(ctx, "bob", "12345678"), ErrPhoneTaken)
	assert.NoError(t, r.FindConflict(ctx, "bob", "00000000"))

	_, err = r.Create(ctx, &models.User{UserName: "alice", Phone: "00000000"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	_, err = r.Create(ctx, &models.User{UserName: "bob", Phone: "12345678"})
	assert.ErrorIs(t, err, ErrPhoneTaken)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	u, err := r.Create(ctx, &models.User{UserName: "alice", Phone: "12345678"})
	require.NoError(t, err)
	u.UserName = "mallory"

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserName)
}
