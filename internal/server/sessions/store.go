// Package sessions keeps server-side web sessions in Redis. The browser only
// holds an opaque random session id in a cookie.
package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/krabbypatty1031-blip/JustAsk/internal/common"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// Options controls session lifetime and cookie attributes.
type Options struct {
	TTL        time.Duration
	CookieName string
	// Secure marks the cookie Secure with SameSite=None for a cross-origin
	// HTTPS frontend. Otherwise the cookie is SameSite=Lax.
	Secure bool
}

// Store is a Redis-backed session store. It is safe for concurrent use.
type Store struct {
	rdb  redis.Cmdable
	opts Options
}

type record struct {
	User      models.SessionUser `json:"user"`
	CreatedAt time.Time          `json:"created_at"`
}

func NewStore(rdb redis.Cmdable, opts Options) *Store {
	return &Store{rdb: rdb, opts: opts}
}

// NewRedisClient parses url, connects and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// Create stores a new session for user and returns its id.
func (s *Store) Create(ctx context.Context, user models.SessionUser) (string, error) {
	id, err := common.MakeRandHexString(32)
	if err != nil {
		return "", fmt.Errorf("session id: %w", err)
	}
	blob, err := json.Marshal(record{User: user, CreatedAt: time.Now().UTC()})
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, keyPrefix+id, blob, s.opts.TTL).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return id, nil
}

// Get returns the session's user, or nil if the session does not exist or
// has expired.
func (s *Store) Get(ctx context.Context, id string) (*models.SessionUser, error) {
	if id == "" {
		return nil, nil
	}
	blob, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var rec record
	if err := json.Unmarshal(blob, &rec); err != nil {
		return nil, fmt.Errorf("corrupt session %s: %w", id, err)
	}
	return &rec.User, nil
}

// Destroy deletes the session. Destroying an unknown id is not an error.
func (s *Store) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// SessionID returns the session id carried by the request's cookie.
func (s *Store) SessionID(r *http.Request) string {
	c, err := r.Cookie(s.opts.CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// UserFromRequest resolves the request's session cookie to its user.
func (s *Store) UserFromRequest(r *http.Request) (*models.SessionUser, error) {
	return s.Get(r.Context(), s.SessionID(r))
}

// SetCookie writes the session cookie for id.
func (s *Store) SetCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, s.cookie(id, int(s.opts.TTL.Seconds())))
}

// ClearCookie expires the session cookie in the browser.
func (s *Store) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie("", -1))
}

func (s *Store) cookie(value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if s.opts.Secure {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}
