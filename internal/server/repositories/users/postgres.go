package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/krabbypatty1031-blip/JustAsk/internal/common"
	"github.com/krabbypatty1031-blip/JustAsk/internal/dbx"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/models"
)

const (
	usernameConstraint = "users_username_key"
	phoneConstraint    = "users_phone_key"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO users (id, username, phone, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.UserName, user.Phone, user.PasswordHash).Scan(&user.CreatedAt)
	if err != nil {
		if constraint, ok := dbx.UniqueViolation(err); ok {
			switch constraint {
			case phoneConstraint:
				return nil, ErrPhoneTaken
			default:
				return nil, ErrUsernameTaken
			}
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrNotFound
	}

	query :=
		`SELECT id, username, phone, password_hash, created_at FROM users
		 WHERE id = $1`

	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByUsernameAndPhone(ctx context.Context, userName, phone string) (*models.User, error) {
	query :=
		`SELECT id, username, phone, password_hash, created_at FROM users
		 WHERE username = $1 AND phone = $2`

	return r.getOne(ctx, query, userName, phone)
}

func (r *PostgresRepository) FindConflict(ctx context.Context, userName, phone string) error {
	query :=
		`SELECT username = $1, phone = $2 FROM users
		 WHERE username = $1 OR phone = $2`

	rows, err := r.db.QueryContext(ctx, query, userName, phone)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var phoneTaken bool
	for rows.Next() {
		var sameName, samePhone bool
		if err := rows.Scan(&sameName, &samePhone); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if sameName {
			return ErrUsernameTaken
		}
		phoneTaken = phoneTaken || samePhone
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	if phoneTaken {
		return ErrPhoneTaken
	}
	return nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&user.ID, &user.UserName, &user.Phone, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}
