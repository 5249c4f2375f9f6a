package sessions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func newTestStore(t *testing.T, secure bool) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, rdb := newTestRedis(t)
	return NewStore(rdb, Options{TTL: time.Hour, CookieName: "justask.sid", Secure: secure}), mr
}

var bob = models.SessionUser{ID: "u-1", UserName: "bob", Phone: "12345678"}

func TestStore_CreateGetDestroy(t *testing.T) {
	s, mr := newTestStore(t, false)
	ctx := context.Background()

	id, err := s.Create(ctx, bob)
	require.NoError(t, err)
	require.Len(t, id, 64)
	assert.True(t, mr.Exists(keyPrefix+id))
	assert.Equal(t, time.Hour, mr.TTL(keyPrefix+id))

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, &bob, got)

	require.NoError(t, s.Destroy(ctx, id))
	got, err = s.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Destroy(ctx, id), "destroying twice is fine")
}

func TestStore_Expiry(t *testing.T) {
	s, mr := newTestStore(t, false)
	ctx := context.Background()

	id, err := s.Create(ctx, bob)
	require.NoError(t, err)

	mr.FastForward(time.Hour + time.Second)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_GetEmptyAndUnknown(t *testing.T) {
	s, _ := newTestStore(t, false)

	got, err := s.Get(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = s.Get(context.Background(), "deadbeef")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_CorruptRecord(t *testing.T) {
	s, mr := newTestStore(t, false)
	require.NoError(t, mr.Set(keyPrefix+"bad", "{not json"))

	_, err := s.Get(context.Background(), "bad")
	require.Error(t, err)
}

func TestStore_RedisDown(t *testing.T) {
	s, mr := newTestStore(t, false)
	mr.Close()

	_, err := s.Create(context.Background(), bob)
	require.Error(t, err)

	_, err = s.Get(context.Background(), "any")
	require.Error(t, err)
}

func TestStore_UserFromRequest(t *testing.T) {
	s, _ := newTestStore(t, false)
	id, err := s.Create(context.Background(), bob)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "justask.sid", Value: id})

	got, err := s.UserFromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, &bob, got)

	got, err = s.UserFromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_Cookies(t *testing.T) {
	t.Run("lax for local development", func(t *testing.T) {
		s, _ := newTestStore(t, false)
		w := httptest.NewRecorder()
		s.SetCookie(w, "abc")

		c := w.Result().Cookies()[0]
		assert.Equal(t, "justask.sid", c.Name)
		assert.Equal(t, "abc", c.Value)
		assert.True(t, c.HttpOnly)
		assert.False(t, c.Secure)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.Equal(t, 3600, c.MaxAge)
	})

	t.Run("secure cross-site in production", func(t *testing.T) {
		s, _ := newTestStore(t, true)
		w := httptest.NewRecorder()
		s.SetCookie(w, "abc")

		c := w.Result().Cookies()[0]
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteNoneMode, c.SameSite)
	})

	t.Run("clear expires the cookie", func(t *testing.T) {
		s, _ := newTestStore(t, false)
		w := httptest.NewRecorder()
		s.ClearCookie(w)

		c := w.Result().Cookies()[0]
		assert.Equal(t, "justask.sid", c.Name)
		assert.Empty(t, c.Value)
		assert.Less(t, c.MaxAge, 0)
	})
}

func TestNewRedisClient(t *testing.T) {
	mr, _ := newTestRedis(t)

	c, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, err = NewRedisClient(context.Background(), "not a url")
	require.Error(t, err)
}
