// Package auth issues and verifies access/refresh tokens, tracks revoked
// refresh tokens, and resolves the caller's identity from a request.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/krabbypatty1031-blip/JustAsk/internal/common"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/models"
)

// AccessClaims is the payload of a short-lived access token:
// {id, username, phone, iat, exp}.
type AccessClaims struct {
	ID       string `json:"id"`
	UserName string `json:"username"`
	Phone    string `json:"phone"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a long-lived refresh token: {id, iat, exp}.
// It omits username and phone.
type RefreshClaims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenService signs access and refresh tokens with two distinct HMAC keys,
// so a leaked key of one class cannot mint tokens of the other.
type TokenService struct {
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenService validates the keys and lifetimes and returns a TokenService.
func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("token secrets must not be empty")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}
	return &TokenService{
		accessKey:  []byte(accessSecret),
		refreshKey: []byte(refreshSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// IssueAccess mints an access token for user valid for the access lifetime.
func (s *TokenService) IssueAccess(user *models.User) (string, error) {
	claims := AccessClaims{
		ID:               user.ID,
		UserName:         user.UserName,
		Phone:            user.Phone,
		RegisteredClaims: s.registered(s.accessTTL),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessKey)
}

// IssueRefresh mints a refresh token for user valid for the refresh lifetime.
func (s *TokenService) IssueRefresh(user *models.User) (string, error) {
	claims := RefreshClaims{
		ID:               user.ID,
		RegisteredClaims: s.registered(s.refreshTTL),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshKey)
}

// VerifyAccess checks signature, algorithm and expiry of an access token.
// Every failure is reported as common.ErrInvalidToken.
func (s *TokenService) VerifyAccess(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.parse(token, claims, s.accessKey); err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing subject", common.ErrInvalidToken)
	}
	return claims, nil
}

// VerifyRefresh checks signature, algorithm and expiry of a refresh token.
// It does not consult the revocation registry.
func (s *TokenService) VerifyRefresh(token string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := s.parse(token, claims, s.refreshKey); err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing subject", common.ErrInvalidToken)
	}
	return claims, nil
}

func (s *TokenService) registered(ttl time.Duration) jwt.RegisteredClaims {
	now := s.now()
	return jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (s *TokenService) parse(token string, claims jwt.Claims, key []byte) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return common.ErrInvalidToken
	}
	return nil
}
