package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Keyspace of the shared download result cache.
const (
	entryKeyPrefix = "mediagrab:dl:"
	lruIndexKey    = "mediagrab:dl-lru"
)

func init() {
	Register("redis", newRedisCache)
}

// redisCache implements Cache on Redis/Valkey for deployments that share the
// download result cache across several service instances.
//
// Each response lives under its own key ({entryKeyPrefix}<user key>) with a
// native TTL, so Redis expires entries on its own and the large base64
// payloads never accumulate inside a single structure. A sorted set
// ({lruIndexKey}, member = user key, score = last-access µs timestamp) tracks
// recency and drives LRU eviction once the entry count passes maxSize.
//
// Lua keeps Get (read + touch) and Set (write + evict) each atomic. Index
// members whose entry already expired are dropped as they surface: on a Get
// miss, or when eviction pops them.
type redisCache struct {
	client   *redis.Client
	ttl      time.Duration
	maxSize  int
	onEvict  EvictCallback
	logger   Logger
	prefix   string
	indexKey string
}

// readAndTouch fetches an entry and refreshes its recency score on a hit.
// A miss also clears the stale index member, if any.
//
// KEYS[1] = entry key, KEYS[2] = LRU index
// ARGV[1] = current µs timestamp, ARGV[2] = member (user key)
var readAndTouch = redis.NewScript(`
local val = redis.call('GET', KEYS[1])
if val then
    redis.call('ZADD', KEYS[2], ARGV[1], ARGV[2])
else
    redis.call('ZREM', KEYS[2], ARGV[2])
end
return val
`)

// writeAndEvict stores an entry with its TTL, records its recency, and pops
// the least-recently-used entries while the index exceeds maxSize.
//
// KEYS[1] = entry key, KEYS[2] = LRU index
// ARGV[1] = value, ARGV[2] = current µs timestamp, ARGV[3] = member
// (user key), ARGV[4] = maxSize, ARGV[5] = TTL in milliseconds,
// ARGV[6] = entry key prefix
//
// Returns the evicted member names. A popped member whose entry had already
// expired was stale index debris, not a live entry, and is not reported.
var writeAndEvict = redis.NewScript(`
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[5])
redis.call('ZADD', KEYS[2], ARGV[2], ARGV[3])

local evicted = {}
local size = redis.call('ZCARD', KEYS[2])
while size > tonumber(ARGV[4]) do
    local oldest = redis.call('ZPOPMIN', KEYS[2], 1)
    if #oldest == 0 then break end
    if redis.call('DEL', ARGV[6] .. oldest[1]) == 1 then
        table.insert(evicted, oldest[1])
    end
    size = size - 1
end
return evicted
`)

func newRedisCache(cfg ProviderConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// Verify connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &redisCache{
		client:   client,
		ttl:      cfg.TTL,
		maxSize:  cfg.Size,
		onEvict:  cfg.OnEvict,
		logger:   cfg.Logger,
		prefix:   entryKeyPrefix,
		indexKey: lruIndexKey,
	}, nil
}

func (r *redisCache) entryKey(key string) string {
	return r.prefix + key
}

func (r *redisCache) logError(msg string, err error) {
	if r.logger != nil {
		r.logger.Error(msg, err)
	}
}

func (r *redisCache) Get(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	now := strconv.FormatInt(time.Now().UnixMicro(), 10)
	result, err := readAndTouch.Run(ctx, r.client,
		[]string{r.entryKey(key), r.indexKey}, now, key,
	).Text()
	if err != nil {
		// redis.Nil means the entry doesn't exist, a normal cache miss.
		if !errors.Is(err, redis.Nil) {
			r.logError("redis cache Get failed", err)
		}
		return nil, false
	}
	return []byte(result), true
}

func (r *redisCache) Set(key string, value []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	now := strconv.FormatInt(time.Now().UnixMicro(), 10)
	evicted, err := writeAndEvict.Run(ctx, r.client,
		[]string{r.entryKey(key), r.indexKey},
		value, now, key, strconv.Itoa(r.maxSize), strconv.FormatInt(r.ttl.Milliseconds(), 10), r.prefix,
	).StringSlice()
	if err != nil {
		r.logError("redis cache Set failed", err)
		return
	}

	if r.onEvict != nil {
		// Value is nil because retrieving evicted payloads from Redis would
		// cost an extra roundtrip per eviction.
		for _, evictedKey := range evicted {
			r.onEvict(evictedKey, nil)
		}
	}
}

func (r *redisCache) Contains(key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	n, err := r.client.Exists(ctx, r.entryKey(key)).Result()
	if err != nil {
		r.logError("redis cache Contains failed", err)
	}
	return err == nil && n == 1
}

// Len reports the index cardinality. Entries Redis expired but whose index
// member has not yet been touched are still counted until they surface.
func (r *redisCache) Len() int {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	n, err := r.client.ZCard(ctx, r.indexKey).Result()
	if err != nil {
		r.logError("redis cache Len failed", err)
		return 0
	}
	return int(n)
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
