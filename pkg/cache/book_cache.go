package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultBookCacheTTL applies when NewBookCache is given a non-positive TTL.
	DefaultBookCacheTTL = 24 * time.Hour

	bookCacheKeyPrefix = "catalog:book"
	dateLayout         = "2006-01-02"

	// tombstone is the fence value left by Delete. Book ids are never reused,
	// so a tombstoned id refuses every later Set until the fence expires.
	tombstone = "deleted"
)

// setBook writes the hash only when its version is not older than the
// entry already cached or the fence left by Evict or Delete.
// KEYS: book hash, fence. ARGV: version, ttl ms, field/value pairs.
var setBook = redis.NewScript(`
local fence = redis.call('GET', KEYS[2])
if fence == '` + tombstone + `' then return 0 end
local v = tonumber(ARGV[1])
if fence and v < tonumber(fence) then return 0 end
local cur = redis.call('HGET', KEYS[1], 'version')
if cur and v < tonumber(cur) then return 0 end
redis.call('DEL', KEYS[1])
redis.call('HSET', KEYS[1], unpack(ARGV, 3))
redis.call('PEXPIRE', KEYS[1], ARGV[2])
return 1
`)

// evictBook drops the hash and raises the fence to version. A tombstone is
// never lowered back to a version.
// KEYS: book hash, fence. ARGV: version, ttl ms.
var evictBook = redis.NewScript(`
local fence = redis.call('GET', KEYS[2])
if fence ~= '` + tombstone + `' and (not fence or tonumber(ARGV[1]) > tonumber(fence)) then
  redis.call('SET', KEYS[2], ARGV[1], 'PX', ARGV[2])
end
redis.call('DEL', KEYS[1])
return 1
`)

// CachedBook is the read model stored in Redis as a hash.
type CachedBook struct {
	ID              int64
	Title           string
	ISBN            string
	PublicationDate time.Time
	Price           float64
	AuthorID        int64
	CategoryID      int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BookCache provides read/write operations for book cache entries.
// Key format: "catalog:book:{id}", with the write fence at "catalog:book:{id}:fence".
//
// Entries are versioned by UpdatedAt in microseconds, the precision Postgres
// stores. A write carrying an older version than the entry or the fence is
// dropped, so a slow read-through warm or a reordered event cannot bring back
// a replaced or deleted book.
type BookCache struct {
	client *RedisClient
	ttl    time.Duration
}

// NewBookCache creates a BookCache backed by r. Entries expire after ttl.
func NewBookCache(r *RedisClient, ttl time.Duration) *BookCache {
	if ttl <= 0 {
		ttl = DefaultBookCacheTTL
	}
	return &BookCache{client: r, ttl: ttl}
}

// Get retrieves a cached book by ID.
// Returns redis.Nil when the key does not exist or has expired.
func (c *BookCache) Get(ctx context.Context, id int64) (*CachedBook, error) {
	vals, err := c.client.Client().HGetAll(ctx, BookKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}
	return decodeBook(vals)
}

// Set writes b unless the cache already holds, or was fenced at, a newer
// version. stored reports whether the write landed.
func (c *BookCache) Set(ctx context.Context, b *CachedBook) (stored bool, err error) {
	fields := encodeBook(b)
	args := make([]any, 0, 2+2*len(fields))
	args = append(args, version(b.UpdatedAt), c.ttl.Milliseconds())
	for k, v := range fields {
		args = append(args, k, v)
	}
	n, err := setBook.Run(ctx, c.client.Client(), []string{BookKey(b.ID), fenceKey(b.ID)}, args...).Int()
	if err != nil {
		return false, fmt.Errorf("cache set: %w", err)
	}
	return n == 1, nil
}

// Evict removes a cached book that changed at updatedAt. Later writes of
// versions older than updatedAt are refused.
func (c *BookCache) Evict(ctx context.Context, id int64, updatedAt time.Time) error {
	err := evictBook.Run(ctx, c.client.Client(), []string{BookKey(id), fenceKey(id)},
		version(updatedAt), c.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("cache evict: %w", err)
	}
	return nil
}

// Delete removes a cached book and leaves a tombstone that refuses any
// later Set for the same id. Deleting a missing key is not an error.
func (c *BookCache) Delete(ctx context.Context, id int64) error {
	pipe := c.client.Client().TxPipeline()
	pipe.Set(ctx, fenceKey(id), tombstone, c.ttl)
	pipe.Del(ctx, BookKey(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// BookKey builds the Redis key for a book.
func BookKey(id int64) string {
	return bookCacheKeyPrefix + ":" + strconv.FormatInt(id, 10)
}

func fenceKey(id int64) string {
	return BookKey(id) + ":fence"
}

func version(t time.Time) string {
	return strconv.FormatInt(t.UnixMicro(), 10)
}

func encodeBook(b *CachedBook) map[string]any {
	return map[string]any{
		"version":          version(b.UpdatedAt),
		"id":               strconv.FormatInt(b.ID, 10),
		"title":            b.Title,
		"isbn":             b.ISBN,
		"publication_date": b.PublicationDate.UTC().Format(dateLayout),
		"price":            strconv.FormatFloat(b.Price, 'f', -1, 64),
		"author_id":        strconv.FormatInt(b.AuthorID, 10),
		"category_id":      strconv.FormatInt(b.CategoryID, 10),
		"created_at":       b.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at":       b.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func decodeBook(vals map[string]string) (*CachedBook, error) {
	var (
		b   CachedBook
		err error
	)
	if b.ID, err = strconv.ParseInt(vals["id"], 10, 64); err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	if b.AuthorID, err = strconv.ParseInt(vals["author_id"], 10, 64); err != nil {
		return nil, fmt.Errorf("cache parse author_id: %w", err)
	}
	if b.CategoryID, err = strconv.ParseInt(vals["category_id"], 10, 64); err != nil {
		return nil, fmt.Errorf("cache parse category_id: %w", err)
	}
	if b.Price, err = strconv.ParseFloat(vals["price"], 64); err != nil {
		return nil, fmt.Errorf("cache parse price: %w", err)
	}
	if b.PublicationDate, err = time.Parse(dateLayout, vals["publication_date"]); err != nil {
		return nil, fmt.Errorf("cache parse publication_date: %w", err)
	}
	if b.CreatedAt, err = time.Parse(time.RFC3339Nano, vals["created_at"]); err != nil {
		return nil, fmt.Errorf("cache parse created_at: %w", err)
	}
	if b.UpdatedAt, err = time.Parse(time.RFC3339Nano, vals["updated_at"]); err != nil {
		return nil, fmt.Errorf("cache parse updated_at: %w", err)
	}
	b.Title = vals["title"]
	b.ISBN = vals["isbn"]
	return &b, nil
}
