// Package services contains server-side business logic. UserService handles
// registration, password login and the access/refresh token lifecycle.
package services

import (
	"context"
	"errors"
	"regexp"

	"github.com/krabbypatty1031-blip/JustAsk/internal/common"
	"github.com/krabbypatty1031-blip/JustAsk/internal/dbx"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/auth"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/models"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/repositories/repomanager"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/repositories/users"
)

var phoneRe = regexp.MustCompile(common.PhonePattern)

// PasswordHasher produces and checks password digests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Registration is the input to Register.
type Registration struct {
	UserName string
	Phone    string
	Password string
}

type UserService struct {
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenService
	revoked     *auth.RevocationRegistry
	hasher      PasswordHasher
}

func NewUserService(m repomanager.RepositoryManager, tokens *auth.TokenService,
	revoked *auth.RevocationRegistry, hasher PasswordHasher) *UserService {
	return &UserService{
		repomanager: m,
		tokens:      tokens,
		revoked:     revoked,
		hasher:      hasher,
	}
}

// Register validates reg and creates the account. Duplicate usernames are
// reported before duplicate phone numbers.
func (s *UserService) Register(ctx context.Context, reg Registration) (*models.User, error) {
	if err := ValidateRegistration(reg); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return nil, internal("hash password", err)
	}

	var created *models.User
	err = s.repomanager.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		if err := repo.FindConflict(ctx, reg.UserName, reg.Phone); err != nil {
			return err
		}
		u, err := repo.Create(ctx, &models.User{
			UserName:     reg.UserName,
			Phone:        reg.Phone,
			PasswordHash: digest,
		})
		created = u
		return err
	})
	switch {
	case err == nil:
		return created, nil
	case errors.Is(err, users.ErrUsernameTaken):
		return nil, common.WithMessage(common.ErrAlreadyExists, msgUsernameTaken)
	case errors.Is(err, users.ErrPhoneTaken):
		return nil, common.WithMessage(common.ErrAlreadyExists, msgPhoneTaken)
	default:
		return nil, internal("create user", err)
	}
}

// ValidateRegistration checks required fields, phone format and password length.
func ValidateRegistration(reg Registration) error {
	if reg.UserName == "" || reg.Phone == "" || reg.Password == "" {
		return common.WithMessage(common.ErrValidation, msgMissingFields)
	}
	if !phoneRe.MatchString(reg.Phone) {
		return common.WithMessage(common.ErrValidation, msgBadPhone)
	}
	if len(reg.Password) < common.MinPasswordLength {
		return common.WithMessage(common.ErrValidation, msgShortPassword)
	}
	return nil
}

// CheckConfirmation rejects a registration whose repeated password differs.
func CheckConfirmation(password, confirm string) error {
	if password != confirm {
		return common.WithMessage(common.ErrValidation, msgPasswordMismatch)
	}
	return nil
}

// Authenticate checks a username, phone and password triple.
func (s *UserService) Authenticate(ctx context.Context, userName, phone, password string) (*models.User, error) {
	if userName == "" || phone == "" || password == "" {
		return nil, common.WithMessage(common.ErrValidation, msgMissingFields)
	}

	user, err := s.repomanager.Users(s.repomanager.Conn()).GetByUsernameAndPhone(ctx, userName, phone)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.WithMessage(common.ErrUnauthorized, msgBadLogin)
		}
		return nil, internal("find user", err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.WithMessage(common.ErrUnauthorized, msgBadPassword)
	}
	return user, nil
}

// Login authenticates and mints a fresh token pair.
func (s *UserService) Login(ctx context.Context, userName, phone, password string) (*models.User, *TokenPair, error) {
	user, err := s.Authenticate(ctx, userName, phone, password)
	if err != nil {
		return nil, nil, err
	}
	pair, err := s.IssueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// IssueTokens mints an access and a refresh token for user.
func (s *UserService) IssueTokens(user *models.User) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(user)
	if err != nil {
		return nil, internal("issue access token", err)
	}
	refresh, err := s.tokens.IssueRefresh(user)
	if err != nil {
		return nil, internal("issue refresh token", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a refresh token for a new access token. The revocation
// registry is consulted before the signature is checked.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", common.WithMessage(common.ErrValidation, msgMissingRefresh)
	}
	if s.revoked.IsRevoked(refreshToken) {
		return "", common.WithMessage(common.ErrTokenRevoked, msgRevokedRefresh)
	}

	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", common.WithMessage(common.ErrInvalidToken, msgInvalidRefresh)
	}

	user, err := s.repomanager.Users(s.repomanager.Conn()).GetByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.WithMessage(common.ErrUnauthorized, msgUserGone)
		}
		return "", internal("find user", err)
	}

	access, err := s.tokens.IssueAccess(user)
	if err != nil {
		return "", internal("issue access token", err)
	}
	return access, nil
}

// Logout revokes refreshToken if one is given. It never fails, so repeated
// logouts are harmless.
func (s *UserService) Logout(_ context.Context, refreshToken string) {
	if refreshToken != "" {
		s.revoked.Revoke(refreshToken)
	}
}
