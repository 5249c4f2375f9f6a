package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/krabbypatty1031-blip/JustAsk/internal/common"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/models"
)

// Source names the credential channel an Identity was resolved from.
type Source int

const (
	SourceBearer Source = iota + 1
	SourceSession
)

func (s Source) String() string {
	switch s {
	case SourceBearer:
		return "bearer"
	case SourceSession:
		return "session"
	default:
		return "unknown"
	}
}

// Identity is the authenticated caller. Phone may be empty for identities
// that did not carry one.
type Identity struct {
	Source   Source
	ID       string
	UserName string
	Phone    string
}

// Author returns the display snapshot used when the caller writes content.
func (i Identity) Author() models.Author {
	return models.Author{ID: i.ID, UserName: i.UserName}
}

// AccessVerifier is the part of TokenService the gate depends on.
type AccessVerifier interface {
	VerifyAccess(token string) (*AccessClaims, error)
}

// SessionReader returns the user of the request's web session, or nil when
// the request has no live session.
type SessionReader interface {
	UserFromRequest(r *http.Request) (*models.SessionUser, error)
}

// Gate resolves a request's Identity. A bearer credential always takes
// precedence: if an Authorization header is present it alone decides, and
// an invalid token is rejected even when a valid session cookie is also sent.
type Gate struct {
	tokens   AccessVerifier
	sessions SessionReader
}

func NewGate(tokens AccessVerifier, sessions SessionReader) *Gate {
	return &Gate{tokens: tokens, sessions: sessions}
}

var (
	errBearerRejected = common.WithMessage(common.ErrUnauthorized, "authentication failed, please log in again")
	errNoCredentials  = common.WithMessage(common.ErrLoginRequired, "login required")
)

// Resolve returns the caller's identity. It fails with common.ErrUnauthorized
// for a bad bearer token, common.ErrLoginRequired when no credential is
// present, and common.ErrInternal when the session store cannot be read.
func (g *Gate) Resolve(r *http.Request) (Identity, error) {
	if header := r.Header.Get(common.AuthorizationHeaderName); header != "" {
		token, ok := bearerToken(header)
		if !ok {
			return Identity{}, errBearerRejected
		}
		claims, err := g.tokens.VerifyAccess(token)
		if err != nil {
			return Identity{}, errBearerRejected
		}
		return Identity{
			Source:   SourceBearer,
			ID:       claims.ID,
			UserName: claims.UserName,
			Phone:    claims.Phone,
		}, nil
	}

	if g.sessions != nil {
		user, err := g.sessions.UserFromRequest(r)
		if err != nil {
			return Identity{}, fmt.Errorf("%w: read session: %v", common.ErrInternal, err)
		}
		if user != nil {
			return Identity{
				Source:   SourceSession,
				ID:       user.ID,
				UserName: user.UserName,
				Phone:    user.Phone,
			}, nil
		}
	}

	return Identity{}, errNoCredentials
}

func bearerToken(value string) (string, bool) {
	if len(value) < len(common.BearerScheme) || !strings.EqualFold(value[:len(common.BearerScheme)], common.BearerScheme) {
		return "", false
	}
	token := strings.TrimSpace(value[len(common.BearerScheme):])
	if token == "" {
		return "", false
	}
	return token, true
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
