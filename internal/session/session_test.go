package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client, ttl, true), mr
}

func requestWithCookie(c *http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if c != nil {
		r.AddCookie(c)
	}
	return r
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("cookie %s not set", CookieName)
	return nil
}

func TestSessionCreateAndGet(t *testing.T) {
	store, _ := newTestStore(t, 0)
	ctx := context.Background()
	w := httptest.NewRecorder()

	data := &Data{UserID: uuid.New(), Email: "op@example.com", DisplayName: "Op"}
	id, err := store.Create(ctx, w, data)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(id) != idLength*2 {
		t.Errorf("session id length = %d, want %d", len(id), idLength*2)
	}

	c := sessionCookie(t, w)
	if c.Value != id {
		t.Errorf("cookie value = %q, want %q", c.Value, id)
	}
	if !c.HttpOnly || !c.Secure {
		t.Errorf("cookie flags HttpOnly=%v Secure=%v, want both true", c.HttpOnly, c.Secure)
	}
	if c.MaxAge != int(DefaultTTL.Seconds()) {
		t.Errorf("MaxAge = %d, want %d", c.MaxAge, int(DefaultTTL.Seconds()))
	}

	got, err := store.Get(ctx, requestWithCookie(c))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.UserID != data.UserID || got.Email != data.Email {
		t.Errorf("Get = %+v, want %+v", got, data)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped")
	}
}

func TestSessionGetWithoutCookie(t *testing.T) {
	store, _ := newTestStore(t, 0)

	got, err := store.Get(context.Background(), requestWithCookie(nil))
	if err != nil || got != nil {
		t.Errorf("Get without cookie = %v, %v; want nil, nil", got, err)
	}
}

func TestSessionLookupUnknownID(t *testing.T) {
	store, _ := newTestStore(t, 0)

	got, err := store.Lookup(context.Background(), "does-not-exist")
	if err != nil || got != nil {
		t.Errorf("Lookup = %v, %v; want nil, nil", got, err)
	}
}

func TestSessionExpires(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	id, err := store.Create(ctx, httptest.NewRecorder(), &Data{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	got, err := store.Lookup(ctx, id)
	if err != nil || got != nil {
		t.Errorf("Lookup after expiry = %v, %v; want nil, nil", got, err)
	}
}

func TestSessionLookupCorruptPayload(t *testing.T) {
	store, mr := newTestStore(t, 0)
	mr.Set(keyPrefix+"bad", "{not json")

	if _, err := store.Lookup(context.Background(), "bad"); err == nil {
		t.Error("expected unmarshal error")
	}
}

func TestSessionDestroy(t *testing.T) {
	store, mr := newTestStore(t, 0)
	ctx := context.Background()

	w := httptest.NewRecorder()
	id, err := store.Create(ctx, w, &Data{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	out := httptest.NewRecorder()
	if err := store.Destroy(ctx, out, requestWithCookie(sessionCookie(t, w))); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if mr.Exists(keyPrefix + id) {
		t.Error("session key still present after Destroy")
	}
	if c := sessionCookie(t, out); c.MaxAge >= 0 {
		t.Errorf("cleared cookie MaxAge = %d, want negative", c.MaxAge)
	}
}

func TestSessionDestroyWithoutCookie(t *testing.T) {
	store, _ := newTestStore(t, 0)
	w := httptest.NewRecorder()

	if err := store.Destroy(context.Background(), w, requestWithCookie(nil)); err != nil {
		t.Errorf("Destroy without cookie: %v", err)
	}
	sessionCookie(t, w)
}
