package sessioncache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"taskboard/internal/domain"

	"github.com/redis/go-redis/v9"
)

type fakeRedis struct {
	mu   sync.Mutex
	data map[string][]byte
	sets map[string]map[string]struct{}
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		data: make(map[string][]byte),
		sets: make(map[string]map[string]struct{}),
	}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(raw), nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		f.data[key] = v
	case string:
		f.data[key] = []byte(v)
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, key := range keys {
		if _, ok := f.data[key]; ok {
			delete(f.data, key)
			n++
		}
		if _, ok := f.sets[key]; ok {
			delete(f.sets, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) SAdd(_ context.Context, key string, members ...any) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.sets[key]
	if !ok {
		set = make(map[string]struct{})
		f.sets[key] = set
	}
	var n int64
	for _, member := range members {
		s, _ := member.(string)
		if _, ok := set[s]; !ok {
			set[s] = struct{}{}
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) SMembers(_ context.Context, key string) *redis.StringSliceCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sets[key]))
	for member := range f.sets[key] {
		out = append(out, member)
	}
	return redis.NewStringSliceResult(out, nil)
}

func (f *fakeRedis) Expire(_ context.Context, _ string, _ time.Duration) *redis.BoolCmd {
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Close() error { return nil }

type fakeInner struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	finds    int
}

func newFakeInner() *fakeInner {
	return &fakeInner{sessions: make(map[string]domain.Session)}
}

func (f *fakeInner) Create(_ context.Context, session domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.Token] = session
	return nil
}

func (f *fakeInner) FindByToken(_ context.Context, token string) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finds++
	session, ok := f.sessions[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &session, nil
}

func (f *fakeInner) DeleteByToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, token)
	return nil
}

func (f *fakeInner) DeleteByUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for token, session := range f.sessions {
		if session.UserID == userID {
			delete(f.sessions, token)
		}
	}
	return nil
}

func (f *fakeInner) findCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.finds
}

func testSession(token, userID string) domain.Session {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return domain.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
		User: domain.User{
			ID:       userID,
			Email:    userID + "@example.com",
			Role:     domain.RoleMember,
			IsActive: true,
		},
	}
}

func newTestStore(inner Inner, client redisClient) *Store {
	return &Store{inner: inner, client: client, ttl: 30 * time.Second}
}

func TestFindByTokenReadThrough(t *testing.T) {
	inner := newFakeInner()
	store := newTestStore(inner, newFakeRedis())
	ctx := context.Background()

	seed := testSession("tok-1", "u1")
	if err := inner.Create(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	first, err := store.FindByToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("first find: %v", err)
	}
	if first.UserID != "u1" || !first.User.IsActive {
		t.Fatalf("unexpected session: %+v", first)
	}
	if inner.findCount() != 1 {
		t.Fatalf("expected 1 inner lookup, got %d", inner.findCount())
	}

	second, err := store.FindByToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("second find: %v", err)
	}
	if inner.findCount() != 1 {
		t.Fatalf("expected cache hit, inner lookups = %d", inner.findCount())
	}
	if second.UserID != first.UserID || second.User.Email != first.User.Email {
		t.Fatalf("cached session differs: %+v vs %+v", second, first)
	}
	if !second.ExpiresAt.Equal(first.ExpiresAt) {
		t.Fatalf("cached expiry differs: %v vs %v", second.ExpiresAt, first.ExpiresAt)
	}
}

func TestFindByTokenCorruptEntryFallsThrough(t *testing.T) {
	inner := newFakeInner()
	client := newFakeRedis()
	store := newTestStore(inner, client)
	ctx := context.Background()

	if err := inner.Create(ctx, testSession("tok-2", "u2")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	client.data[sessionKey("tok-2")] = []byte("{not json")

	session, err := store.FindByToken(ctx, "tok-2")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if session.UserID != "u2" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if inner.findCount() != 1 {
		t.Fatalf("expected fall-through to inner, lookups = %d", inner.findCount())
	}
	// The corrupt entry is replaced by a good one.
	if _, err := store.FindByToken(ctx, "tok-2"); err != nil {
		t.Fatalf("re-find: %v", err)
	}
	if inner.findCount() != 1 {
		t.Fatalf("expected cache hit after repair, lookups = %d", inner.findCount())
	}
}

func TestFindByTokenMissPropagates(t *testing.T) {
	inner := newFakeInner()
	client := newFakeRedis()
	store := newTestStore(inner, client)

	_, err := store.FindByToken(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(client.data) != 0 {
		t.Fatalf("miss must not be cached, got %d entries", len(client.data))
	}
}

func TestDeleteByTokenEvictsCache(t *testing.T) {
	inner := newFakeInner()
	client := newFakeRedis()
	store := newTestStore(inner, client)
	ctx := context.Background()

	if err := store.Create(ctx, testSession("tok-3", "u3")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.DeleteByToken(ctx, "tok-3"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := client.data[sessionKey("tok-3")]; ok {
		t.Fatal("expected cache entry evicted")
	}
	if _, err := store.FindByToken(ctx, "tok-3"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteByUserPurgesCachedSessions(t *testing.T) {
	inner := newFakeInner()
	client := newFakeRedis()
	store := newTestStore(inner, client)
	ctx := context.Background()

	for _, token := range []string{"tok-4a", "tok-4b"} {
		if err := store.Create(ctx, testSession(token, "u4")); err != nil {
			t.Fatalf("create %s: %v", token, err)
		}
	}
	if err := store.Create(ctx, testSession("tok-5", "u5")); err != nil {
		t.Fatalf("create tok-5: %v", err)
	}

	if err := store.DeleteByUser(ctx, "u4"); err != nil {
		t.Fatalf("delete by user: %v", err)
	}
	for _, token := range []string{"tok-4a", "tok-4b"} {
		if _, ok := client.data[sessionKey(token)]; ok {
			t.Fatalf("expected cached %s purged", token)
		}
		if _, err := store.FindByToken(ctx, token); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected %s revoked, got %v", token, err)
		}
	}
	// Another user's session is untouched.
	if session, err := store.FindByToken(ctx, "tok-5"); err != nil || session.UserID != "u5" {
		t.Fatalf("expected tok-5 to survive, got %+v, %v", session, err)
	}
}
