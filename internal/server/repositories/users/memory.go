package users

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/krabbypatty1031-blip/JustAsk/internal/common"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/models"
)

// MemoryRepository keeps users in process memory. Returned users are copies.
type MemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]models.User
	names map[string]string
	phone map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:  make(map[string]models.User),
		names: make(map[string]string),
		phone: make(map[string]string),
	}
}

func (r *MemoryRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.names[user.UserName]; ok {
		return nil, ErrUsernameTaken
	}
	if _, ok := r.phone[user.Phone]; ok {
		return nil, ErrPhoneTaken
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now().UTC()

	r.byID[user.ID] = *user
	r.names[user.UserName] = user.ID
	r.phone[user.Phone] = user.ID

	u := *user
	return &u, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) GetByUsernameAndPhone(_ context.Context, userName, phone string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.names[userName]
	if !ok {
		return nil, common.ErrNotFound
	}
	u := r.byID[id]
	if u.Phone != phone {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) FindConflict(_ context.Context, userName, phone string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.names[userName]; ok {
		return ErrUsernameTaken
	}
	if _, ok := r.phone[phone]; ok {
		return ErrPhoneTaken
	}
	return nil
}
