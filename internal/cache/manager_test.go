package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

type widget struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// flakyBackend wraps a Backend and fails selected operations on demand
type flakyBackend struct {
	Backend
	mu         sync.Mutex
	failGet    bool
	failSet    bool
	failDelete map[string]bool
	deleted    []string
}

func (f *flakyBackend) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	fail := f.failGet
	f.mu.Unlock()
	if fail {
		return nil, errors.New("connection refused")
	}
	return f.Backend.Get(ctx, key)
}

func (f *flakyBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	fail := f.failSet
	f.mu.Unlock()
	if fail {
		return errors.New("connection refused")
	}
	return f.Backend.Set(ctx, key, value, ttl)
}

func (f *flakyBackend) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	f.deleted = append(f.deleted, key)
	fail := f.failDelete[key]
	f.mu.Unlock()
	if fail {
		return errors.New("connection refused")
	}
	return f.Backend.Delete(ctx, key)
}

func newRedisManager(t *testing.T) (*Manager, *miniredis.Miniredis, *Metrics) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := NewRedisClient(RedisConfig{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	metrics := NewMetrics(prometheus.NewRegistry())
	return NewManager(NewRedisBackend(client, ""), zap.NewNop(), metrics), mr, metrics
}

func countingFetch(calls *int, value *widget, err error) FetchFunc[*widget] {
	return func(ctx context.Context) (*widget, error) {
		*calls++
		return value, err
	}
}

func TestGetFromCache_MissThenHit(t *testing.T) {
	m, mr, metrics := newRedisManager(t)
	ctx := context.Background()
	calls := 0
	fetch := countingFetch(&calls, &widget{ID: "1", Name: "Acme"}, nil)

	first, err := GetFromCache(ctx, m, "Brand_1", fetch, time.Minute)
	if err != nil {
		t.Fatalf("GetFromCache failed: %v", err)
	}
	second, err := GetFromCache(ctx, m, "Brand_1", fetch, time.Minute)
	if err != nil {
		t.Fatalf("GetFromCache failed: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected one fetch, got %d", calls)
	}
	if *first != *second {
		t.Errorf("hit returned %+v, miss returned %+v", second, first)
	}
	if ttl := mr.TTL("Brand_1"); ttl != time.Minute {
		t.Errorf("expected 1m TTL, got %v", ttl)
	}
	if got := testutil.ToFloat64(metrics.lookups.WithLabelValues("Brand", ResultHit)); got != 1 {
		t.Errorf("expected 1 hit, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.lookups.WithLabelValues("Brand", ResultMiss)); got != 1 {
		t.Errorf("expected 1 miss, got %v", got)
	}
}

func TestGetFromCache_FetchErrorIsNotCached(t *testing.T) {
	m, mr, _ := newRedisManager(t)
	calls := 0
	storeErr := errors.New("store unavailable")

	_, err := GetFromCache(context.Background(), m, "Brand_1", countingFetch(&calls, nil, storeErr), time.Minute)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if mr.Exists("Brand_1") {
		t.Error("failed fetch must not populate the cache")
	}
}

func TestGetFromCache_NilResultIsNotCached(t *testing.T) {
	m, mr, _ := newRedisManager(t)
	ctx := context.Background()
	calls := 0
	fetch := countingFetch(&calls, nil, nil)

	for i := 0; i < 2; i++ {
		v, err := GetFromCache(ctx, m, "Brand_missing", fetch, time.Minute)
		if err != nil || v != nil {
			t.Fatalf("expected (nil, nil), got (%v, %v)", v, err)
		}
	}
	if calls != 2 {
		t.Errorf("negative result should not be cached, fetched %d times", calls)
	}
	if mr.Exists("Brand_missing") {
		t.Error("nil result written to cache")
	}
}

func TestGetFromCache_CorruptEntryIsRefetched(t *testing.T) {
	m, mr, metrics := newRedisManager(t)
	ctx := context.Background()
	if err := mr.Set("Brand_1", "{not json"); err != nil {
		t.Fatal(err)
	}

	calls := 0
	v, err := GetFromCache(ctx, m, "Brand_1", countingFetch(&calls, &widget{ID: "1", Name: "Fresh"}, nil), time.Minute)
	if err != nil {
		t.Fatalf("GetFromCache failed: %v", err)
	}
	if v.Name != "Fresh" || calls != 1 {
		t.Errorf("expected refetched value, got %+v after %d fetches", v, calls)
	}

	raw, err := mr.Get("Brand_1")
	if err != nil || raw != `{"id":"1","name":"Fresh"}` {
		t.Errorf("corrupt entry not overwritten: %q (%v)", raw, err)
	}
	if got := testutil.ToFloat64(metrics.lookups.WithLabelValues("Brand", ResultCorrupt)); got != 1 {
		t.Errorf("expected 1 corrupt lookup, got %v", got)
	}
}

func TestGetFromCache_CorruptEntryRemovedWhenStoreHasNothing(t *testing.T) {
	m, mr, _ := newRedisManager(t)
	if err := mr.Set("Brand_1", "null"); err != nil {
		t.Fatal(err)
	}

	calls := 0
	v, err := GetFromCache(context.Background(), m, "Brand_1", countingFetch(&calls, nil, nil), time.Minute)
	if err != nil || v != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", v, err)
	}
	if mr.Exists("Brand_1") {
		t.Error("stale entry should be removed")
	}
}

func TestGetFromCache_FailsOpenWhenBackendIsDown(t *testing.T) {
	mem, err := NewMemoryBackend(DefaultMemoryConfig(), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	backend := &flakyBackend{Backend: mem, failGet: true, failSet: true}
	metrics := NewMetrics(prometheus.NewRegistry())
	m := NewManager(backend, zap.NewNop(), metrics)

	calls := 0
	v, err := GetFromCache(context.Background(), m, "Product_1", countingFetch(&calls, &widget{ID: "1"}, nil), time.Minute)
	if err != nil {
		t.Fatalf("backend failure leaked to caller: %v", err)
	}
	if v == nil || calls != 1 {
		t.Fatalf("expected store answer, got %+v after %d fetches", v, calls)
	}
	if got := testutil.ToFloat64(metrics.lookups.WithLabelValues("Product", ResultError)); got < 1 {
		t.Errorf("expected backend errors to be counted, got %v", got)
	}
}

func TestGetFromCache_EmptyCollectionIsCached(t *testing.T) {
	m, mr, _ := newRedisManager(t)
	calls := 0
	var fetch FetchFunc[[]*widget] = func(ctx context.Context) ([]*widget, error) {
		calls++
		return []*widget{}, nil
	}

	for i := 0; i < 3; i++ {
		list, err := GetFromCache(context.Background(), m, "Brand_All", fetch, time.Minute)
		if err != nil || len(list) != 0 {
			t.Fatalf("unexpected result %v, %v", list, err)
		}
	}
	if calls != 1 {
		t.Errorf("expected empty list to be served from cache, fetched %d times", calls)
	}
	if !mr.Exists("Brand_All") {
		t.Error("empty list not cached")
	}
}

func TestInvalidateCache_DedupesAndIgnoresAbsentKeys(t *testing.T) {
	mem, err := NewMemoryBackend(DefaultMemoryConfig(), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	backend := &flakyBackend{Backend: mem}
	m := NewManager(backend, zap.NewNop(), nil)
	ctx := context.Background()

	_ = mem.Set(ctx, "Brand_1", []byte("{}"), 0)

	if err := m.InvalidateCache(ctx, "Brand_1", "Brand_All", "Brand_1", "Brand_missing"); err != nil {
		t.Fatalf("InvalidateCache failed: %v", err)
	}
	if len(backend.deleted) != 3 {
		t.Errorf("expected 3 distinct deletions, got %v", backend.deleted)
	}
	if m.Exists(ctx, "Brand_1") {
		t.Error("Brand_1 still cached")
	}
}

func TestInvalidateCache_AttemptsEveryKeyAndJoinsErrors(t *testing.T) {
	mem, err := NewMemoryBackend(DefaultMemoryConfig(), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	backend := &flakyBackend{Backend: mem, failDelete: map[string]bool{"Brand_1": true}}
	m := NewManager(backend, zap.NewNop(), nil)
	ctx := context.Background()
	_ = mem.Set(ctx, "Brand_All", []byte("[]"), 0)

	err = m.InvalidateCache(ctx, "Brand_1", "Brand_All")
	if err == nil {
		t.Fatal("expected an error for the failed key")
	}
	if m.Exists(ctx, "Brand_All") {
		t.Error("remaining keys must still be deleted after a failure")
	}
}

func TestExists_ReportsFalseOnBackendError(t *testing.T) {
	m, mr, _ := newRedisManager(t)
	ctx := context.Background()
	_ = mr.Set("Brand_1", "{}")

	if !m.Exists(ctx, "Brand_1") {
		t.Fatal("expected key to exist")
	}

	mr.Close()
	if m.Exists(ctx, "Brand_1") {
		t.Error("unreachable backend must report false")
	}
}
