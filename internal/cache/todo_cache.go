package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	dom "github.com/vishnucprasad/gotodo-server/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyRange = "todo:range:"

// TodoCache caches per-user date-range listings in Redis.
type TodoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTodoCache returns a new TodoCache.
func NewTodoCache(rdb *redis.Client, ttl time.Duration) *TodoCache {
	return &TodoCache{rdb: rdb, ttl: ttl}
}

// GetRange returns the cached listing for the user and range, or nil on
// miss. A cached empty listing comes back as a non-nil empty slice, so
// callers can tell it apart from a miss.
func (c *TodoCache) GetRange(ctx context.Context, userID int64, from, to time.Time) ([]dom.Todo, error) {
	b, err := c.rdb.Get(ctx, rangeKey(userID, from, to)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeTodos(b)
}

// SetRange stores the listing for the user and range.
func (c *TodoCache) SetRange(ctx context.Context, userID int64, from, to time.Time, list []dom.Todo) error {
	b, err := encodeTodos(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, rangeKey(userID, from, to), b, c.ttl).Err()
}

// encodeTodos marshals a nil listing as "[]", never "null", so empty
// results round-trip as hits.
func encodeTodos(list []dom.Todo) ([]byte, error) {
	if list == nil {
		list = []dom.Todo{}
	}
	return json.Marshal(list)
}

func decodeTodos(b []byte) ([]dom.Todo, error) {
	list := []dom.Todo{}
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []dom.Todo{}
	}
	return list, nil
}

// Invalidate removes every cached range for the user (cache invalidation on write).
func (c *TodoCache) Invalidate(ctx context.Context, userID int64) error {
	iter := c.rdb.Scan(ctx, 0, userPrefix(userID)+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func userPrefix(userID int64) string {
	return keyRange + strconv.FormatInt(userID, 10) + ":"
}

func rangeKey(userID int64, from, to time.Time) string {
	return userPrefix(userID) + from.UTC().Format(time.RFC3339) + ":" + to.UTC().Format(time.RFC3339)
}
