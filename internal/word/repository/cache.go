package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wordcollab/wordcollab/internal/word"
	"github.com/wordcollab/wordcollab/pkg/logger"
	"github.com/wordcollab/wordcollab/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultListKey is the Redis key holding the cached word list.
const DefaultListKey = "words:list"

// errStaleFill aborts a cache fill whose list was read before a later write.
var errStaleFill = errors.New("word cache: generation moved")

// CachedRepo caches List results in Redis and drops the entry after every
// successful write. Redis failures fall through to the wrapped repository.
//
// Every write bumps a generation counter next to the list. A fill only stores
// its list if the generation is still the one seen before the backing read,
// so a slow List cannot put back a list that misses an acknowledged write.
type CachedRepo struct {
	Repository
	client *redis.Client
	key    string
	genKey string
	ttl    time.Duration
}

// NewCachedRepo wraps next. A nil client returns next unchanged.
func NewCachedRepo(next Repository, client *redis.Client, ttl time.Duration) Repository {
	if client == nil {
		return next
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedRepo{Repository: next, client: client, key: DefaultListKey, genKey: DefaultListKey + ":gen", ttl: ttl}
}

func (c *CachedRepo) List(ctx context.Context) ([]*word.Word, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		c.lookupFailed(ctx, "get generation", err)
		return c.Repository.List(ctx)
	}

	b, err := c.client.Get(ctx, c.key).Bytes()
	switch {
	case err == nil:
		var out []*word.Word
		if jerr := json.Unmarshal(b, &out); jerr == nil {
			metrics.CacheRequests.WithLabelValues("hit").Inc()
			return out, nil
		}
		logger.Warnf("word cache: discarding undecodable entry %q", c.key)
		metrics.CacheRequests.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		metrics.CacheRequests.WithLabelValues("miss").Inc()
	default:
		c.lookupFailed(ctx, "get", err)
	}

	list, err := c.Repository.List(ctx)
	if err != nil {
		return nil, err
	}
	c.fill(ctx, gen, list)
	return list, nil
}

func (c *CachedRepo) Insert(ctx context.Context, w *word.Word) (*word.Word, error) {
	out, err := c.Repository.Insert(ctx, w)
	if err == nil {
		c.invalidate(ctx)
	}
	return out, err
}

func (c *CachedRepo) AppendCollaborator(ctx context.Context, id primitive.ObjectID, name string) (*word.Word, error) {
	out, err := c.Repository.AppendCollaborator(ctx, id, name)
	if err == nil {
		c.invalidate(ctx)
	}
	return out, err
}

// generation returns the write counter; a missing key is generation 0.
func (c *CachedRepo) generation(ctx context.Context) (int64, error) {
	n, err := c.client.Get(ctx, c.genKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// fill stores list unless a write bumped the generation since gen was read.
func (c *CachedRepo) fill(ctx context.Context, gen int64, list []*word.Word) {
	b, err := json.Marshal(list)
	if err != nil {
		return
	}
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, c.genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, c.key, b, c.ttl)
			return nil
		})
		return err
	}, c.genKey)
	switch {
	case err == nil, errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
	case ctx.Err() != nil:
	default:
		logger.Warnf("word cache: set %q: %v", c.key, err)
	}
}

func (c *CachedRepo) invalidate(ctx context.Context) {
	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, c.genKey)
		p.Del(ctx, c.key)
		return nil
	})
	if err != nil && ctx.Err() == nil {
		logger.Warnf("word cache: invalidate %q: %v", c.key, err)
	}
}

// lookupFailed records a Redis read error. Cancelled requests are not cache faults.
func (c *CachedRepo) lookupFailed(ctx context.Context, op string, err error) {
	if ctx.Err() != nil {
		return
	}
	logger.Warnf("word cache: %s %q: %v", op, c.key, err)
	metrics.CacheRequests.WithLabelValues("error").Inc()
}
