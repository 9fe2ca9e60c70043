package services

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	pkgcache "github.com/ghuser/catalog/pkg/cache"
	"github.com/ghuser/catalog/pkg/config"
	"github.com/ghuser/catalog/pkg/logger"
	"github.com/ghuser/catalog/services/catalog/domain"
	"github.com/ghuser/catalog/services/catalog/domain/models"
)

func ptr[T any](v T) *T { return &v }

func testLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

// memStore is an in-memory catalog. It implements every repository interface
// and the EntityGateway so service tests can run without Postgres.
type memStore struct {
	mu         sync.Mutex
	nextID     int64
	authors    map[int64]models.Author
	categories map[int64]models.Category
	books      map[int64]models.Book
	gatewayErr error
	lookups    int
}

func newMemStore() *memStore {
	return &memStore{
		authors:    map[int64]models.Author{},
		categories: map[int64]models.Category{},
		books:      map[int64]models.Book{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) seedAuthor(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := models.NewAuthor(models.AuthorName(name))
	a.ID = s.id()
	s.authors[a.ID] = *a
	return a.ID
}

func (s *memStore) seedCategory(genre string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := models.NewCategory(models.Genre(genre))
	c.ID = s.id()
	s.categories[c.ID] = *c
	return c.ID
}

// EntityGateway.

func (s *memStore) AuthorExists(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	if s.gatewayErr != nil {
		return false, s.gatewayErr
	}
	_, ok := s.authors[id]
	return ok, nil
}

func (s *memStore) CategoryExists(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	if s.gatewayErr != nil {
		return false, s.gatewayErr
	}
	_, ok := s.categories[id]
	return ok, nil
}

func (s *memStore) FindBookByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	s.mu.Lock()
	s.lookups++
	err := s.gatewayErr
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return bookRepo{s}.FindByISBN(ctx, isbn)
}

// authorRepo, categoryRepo and bookRepo split the method sets that collide by
// name across the repository interfaces.
type authorRepo struct{ *memStore }

func (r authorRepo) Save(_ context.Context, a *models.Author) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = r.id()
	r.authors[a.ID] = *a
	return nil
}

func (r authorRepo) GetByID(_ context.Context, id int64) (*models.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.authors[id]
	if !ok {
		return nil, domain.ErrAuthorNotFound
	}
	return &a, nil
}

func (r authorRepo) List(context.Context) ([]*models.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Author, 0, len(r.authors))
	for _, a := range r.authors {
		a := a
		out = append(out, &a)
	}
	return out, nil
}

func (r authorRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.authors)), nil
}

func (r authorRepo) Update(_ context.Context, a *models.Author) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.authors[a.ID]; !ok {
		return domain.ErrAuthorNotFound
	}
	r.authors[a.ID] = *a
	return nil
}

func (r authorRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.authors[id]; !ok {
		return domain.ErrAuthorNotFound
	}
	for _, b := range r.books {
		if b.AuthorID == id {
			return domain.ReferentialViolation("id", id, domain.ErrAuthorInUse, "Author is referenced by books.")
		}
	}
	delete(r.authors, id)
	return nil
}

func (r authorRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.authors[id]
	return ok, nil
}

type categoryRepo struct{ *memStore }

func (r categoryRepo) Save(_ context.Context, c *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.id()
	r.categories[c.ID] = *c
	return nil
}

func (r categoryRepo) GetByID(_ context.Context, id int64) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return &c, nil
}

func (r categoryRepo) List(context.Context) ([]*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		c := c
		out = append(out, &c)
	}
	return out, nil
}

func (r categoryRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.categories)), nil
}

func (r categoryRepo) Update(_ context.Context, c *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[c.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	r.categories[c.ID] = *c
	return nil
}

func (r categoryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	for _, b := range r.books {
		if b.CategoryID == id {
			return domain.ReferentialViolation("id", id, domain.ErrCategoryInUse, "Category is referenced by books.")
		}
	}
	delete(r.categories, id)
	return nil
}

func (r categoryRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.categories[id]
	return ok, nil
}

type bookRepo struct{ *memStore }

func (r bookRepo) Save(_ context.Context, b *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = r.id()
	r.books[b.ID] = *b
	return nil
}

func (r bookRepo) GetByID(_ context.Context, id int64) (*models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	return &b, nil
}

func (r bookRepo) FindByISBN(_ context.Context, isbn string) (*models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.books {
		if b.ISBN == isbn {
			return &b, nil
		}
	}
	return nil, domain.ErrBookNotFound
}

func (r bookRepo) List(context.Context) ([]*models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Book, 0, len(r.books))
	for _, b := range r.books {
		b := b
		out = append(out, &b)
	}
	return out, nil
}

func (r bookRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.books)), nil
}

func (r bookRepo) Update(_ context.Context, b *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[b.ID]; !ok {
		return domain.ErrBookNotFound
	}
	r.books[b.ID] = *b
	return nil
}

func (r bookRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return domain.ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}

// memCache is a BookCache that records evictions and applies the same
// version fencing as the Redis cache. When gate is set, Set blocks on it
// before deciding, which lets tests interleave a slow warm with writes.
type memCache struct {
	mu      sync.Mutex
	entries map[int64]pkgcache.CachedBook
	fences  map[int64]int64
	evicted []int64
	sets    chan int64
	gate    chan struct{}
}

const tombstoned = math.MaxInt64

func newMemCache() *memCache {
	return &memCache{
		entries: map[int64]pkgcache.CachedBook{},
		fences:  map[int64]int64{},
		sets:    make(chan int64, 8),
	}
}

func (c *memCache) Get(_ context.Context, id int64) (*pkgcache.CachedBook, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[id]
	if !ok {
		return nil, redis.Nil
	}
	return &b, nil
}

func (c *memCache) Set(_ context.Context, b *pkgcache.CachedBook) (bool, error) {
	if c.gate != nil {
		<-c.gate
	}
	c.mu.Lock()
	v := b.UpdatedAt.UnixMicro()
	cur, cached := c.entries[b.ID]
	stored := v >= c.fences[b.ID] && c.fences[b.ID] != tombstoned && (!cached || v >= cur.UpdatedAt.UnixMicro())
	if stored {
		c.entries[b.ID] = *b
	}
	c.mu.Unlock()
	c.sets <- b.ID
	return stored, nil
}

func (c *memCache) Evict(_ context.Context, id int64, updatedAt time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v := updatedAt.UnixMicro(); v > c.fences[id] {
		c.fences[id] = v
	}
	delete(c.entries, id)
	c.evicted = append(c.evicted, id)
	return nil
}

func (c *memCache) Delete(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fences[id] = tombstoned
	delete(c.entries, id)
	c.evicted = append(c.evicted, id)
	return nil
}
