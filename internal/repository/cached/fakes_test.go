package cached

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"catalog-service/internal/cache"
	"catalog-service/internal/domain"
	"catalog-service/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const testTTL = 5 * time.Minute

func newTestManager(t *testing.T) (*cache.Manager, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := cache.NewRedisClient(cache.RedisConfig{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	metrics := cache.NewMetrics(prometheus.NewRegistry())
	return cache.NewManager(cache.NewRedisBackend(client, ""), zap.NewNop(), metrics), mr
}

// clone mimics a database round trip so callers never share pointers with the store
func clone[E any](e E) E {
	data, err := json.Marshal(e)
	if err != nil {
		panic(err)
	}
	var out E
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	return out
}

// fakeStore is an in-memory table that counts calls per operation
type fakeStore[E any] struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]E
	order    []uuid.UUID
	idOf     func(E) uuid.UUID
	notFound error
	calls    map[string]int

	// failWith makes every operation return this error
	failWith error
	// afterCommit runs inside a write after it has been applied
	afterCommit func()
}

func newFakeStore[E any](idOf func(E) uuid.UUID, notFound error) *fakeStore[E] {
	return &fakeStore[E]{
		rows:     make(map[uuid.UUID]E),
		idOf:     idOf,
		notFound: notFound,
		calls:    make(map[string]int),
	}
}

func (s *fakeStore[E]) count(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *fakeStore[E]) record(op string) error {
	s.calls[op]++
	return s.failWith
}

func (s *fakeStore[E]) seed(rows ...E) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range rows {
		id := s.idOf(e)
		if _, ok := s.rows[id]; !ok {
			s.order = append(s.order, id)
		}
		s.rows[id] = clone(e)
	}
}

func (s *fakeStore[E]) commit() {
	if s.afterCommit != nil {
		hook := s.afterCommit
		s.mu.Unlock()
		hook()
		s.mu.Lock()
	}
}

func (s *fakeStore[E]) filter(op string, keep func(E) bool) ([]E, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(op); err != nil {
		return nil, err
	}
	out := []E{}
	for _, id := range s.order {
		if e, ok := s.rows[id]; ok && keep(e) {
			out = append(out, clone(e))
		}
	}
	return out, nil
}

func (s *fakeStore[E]) GetAll(ctx context.Context) ([]E, error) {
	return s.filter("GetAll", func(E) bool { return true })
}

func (s *fakeStore[E]) GetByID(ctx context.Context, id uuid.UUID) (E, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero E
	if err := s.record("GetByID"); err != nil {
		return zero, err
	}
	e, ok := s.rows[id]
	if !ok {
		return zero, s.notFound
	}
	return clone(e), nil
}

func (s *fakeStore[E]) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Exists"); err != nil {
		return false, err
	}
	_, ok := s.rows[id]
	return ok, nil
}

func (s *fakeStore[E]) Add(ctx context.Context, e E) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Add"); err != nil {
		return false, err
	}
	id := s.idOf(e)
	if _, ok := s.rows[id]; ok {
		return false, nil
	}
	s.rows[id] = clone(e)
	s.order = append(s.order, id)
	s.commit()
	return true, nil
}

func (s *fakeStore[E]) Update(ctx context.Context, e E) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Update"); err != nil {
		return false, err
	}
	id := s.idOf(e)
	if _, ok := s.rows[id]; !ok {
		return false, nil
	}
	s.rows[id] = clone(e)
	s.commit()
	return true, nil
}

func (s *fakeStore[E]) RemoveByID(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("RemoveByID"); err != nil {
		return false, err
	}
	if _, ok := s.rows[id]; !ok {
		return false, nil
	}
	delete(s.rows, id)
	s.commit()
	return true, nil
}

func newBrandStore() *fakeStore[*domain.Brand] {
	return newFakeStore(func(b *domain.Brand) uuid.UUID { return b.ID() }, repository.ErrBrandNotFound)
}

func newProductStore() *fakeStore[*domain.Product] {
	return newFakeStore(func(p *domain.Product) uuid.UUID { return p.ID() }, repository.ErrProductNotFound)
}

// fakeCategoryStore nulls the parent of children when a category is removed
type fakeCategoryStore struct {
	*fakeStore[*domain.Category]
}

func newCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{
		fakeStore: newFakeStore(func(c *domain.Category) uuid.UUID { return c.ID() }, repository.ErrCategoryNotFound),
	}
}

func (s *fakeCategoryStore) GetSubcategories(ctx context.Context, parentID *uuid.UUID) ([]*domain.Category, error) {
	return s.filter("GetSubcategories", func(c *domain.Category) bool {
		p := c.ParentID()
		if parentID == nil || p == nil {
			return parentID == nil && p == nil
		}
		return *p == *parentID
	})
}

func (s *fakeCategoryStore) RemoveByID(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := s.fakeStore.RemoveByID(ctx, id)
	if !ok || err != nil {
		return ok, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for childID, c := range s.rows {
		if p := c.ParentID(); p != nil && *p == id {
			s.rows[childID] = domain.RestoreCategory(c.ID(), nil, c.Name(), c.Description(), c.ImageRef(), c.DisplayOrder())
		}
	}
	return true, nil
}

type fakeImageStore struct {
	*fakeStore[*domain.ProductImage]
}

func newImageStore() *fakeImageStore {
	return &fakeImageStore{
		fakeStore: newFakeStore(func(i *domain.ProductImage) uuid.UUID { return i.ID() }, repository.ErrProductImageNotFound),
	}
}

func (s *fakeImageStore) GetAllByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.ProductImage, error) {
	return s.filter("GetAllByProduct", func(i *domain.ProductImage) bool { return i.ProductID() == productID })
}

func (s *fakeImageStore) CountByProduct(ctx context.Context, productID uuid.UUID) (int, error) {
	images, err := s.filter("CountByProduct", func(i *domain.ProductImage) bool { return i.ProductID() == productID })
	return len(images), err
}

func (s *fakeImageStore) BatchUpdate(ctx context.Context, images []*domain.ProductImage) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("BatchUpdate"); err != nil {
		return false, err
	}
	for _, img := range images {
		if _, ok := s.rows[img.ID()]; !ok {
			return false, nil
		}
	}
	for _, img := range images {
		s.rows[img.ID()] = clone(img)
	}
	return true, nil
}

// failingDeletes makes every cache invalidation fail while reads keep working
type failingDeletes struct {
	cache.Backend
}

func (failingDeletes) Delete(context.Context, string) error {
	return errDeleteRefused
}

// brokenReads fails every cache read while writes and deletes keep working
type brokenReads struct {
	cache.Backend
}

func (brokenReads) Get(context.Context, string) ([]byte, error) {
	return nil, errReadRefused
}

func (brokenReads) Exists(context.Context, string) (bool, error) {
	return false, errReadRefused
}
