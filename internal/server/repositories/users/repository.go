// Package users stores accounts. Usernames and phone numbers are each unique.
package users

import (
	"context"
	"fmt"

	"github.com/krabbypatty1031-blip/JustAsk/internal/common"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/models"
)

var (
	ErrUsernameTaken = fmt.Errorf("username %w", common.ErrAlreadyExists)
	ErrPhoneTaken    = fmt.Errorf("phone %w", common.ErrAlreadyExists)
)

// Repository persists users.
type Repository interface {
	// Create stores user, filling in ID if empty and CreatedAt.
	// A duplicate username or phone yields ErrUsernameTaken or ErrPhoneTaken.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByUsernameAndPhone finds the account matching both fields.
	GetByUsernameAndPhone(ctx context.Context, userName, phone string) (*models.User, error)
	// FindConflict reports whether either field is already registered,
	// checking the username first.
	FindConflict(ctx context.Context, userName, phone string) error
}
