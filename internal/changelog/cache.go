package changelog

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// DefaultCacheTTL is how long a fetched document is served without revalidation.
	DefaultCacheTTL = time.Hour
	// DefaultMaxStale is how long past the TTL a stale document may still be
	// served while a refresh runs in the background.
	DefaultMaxStale = 24 * time.Hour

	refreshKey = "changelog"
)

// CacheConfig configures a CachedSource.
type CacheConfig struct {
	// TTL is the freshness window. Zero or negative disables caching.
	TTL time.Duration
	// MaxStale bounds stale serving; zero means stale values never expire.
	MaxStale time.Duration
	// RefreshTimeout bounds a background refresh. Zero means DefaultRemoteTimeout
	// plus a margin for the fallback read.
	RefreshTimeout time.Duration
	// Now is the clock (injectable for tests).
	Now func() time.Time
}

// CachedSource wraps a Fetcher with stale-while-revalidate caching.
// Caching only changes latency: errors are never cached, and with TTL <= 0
// every call goes straight to the underlying Fetcher.
type CachedSource struct {
	fetcher        Fetcher
	ttl            time.Duration
	maxStale       time.Duration
	refreshTimeout time.Duration
	now            func() time.Time

	mu         sync.RWMutex
	doc        *Document
	fetchedAt  time.Time
	generation uint64
	refreshing bool

	group singleflight.Group
	wg    sync.WaitGroup
}

// NewCachedSource wraps fetcher with the given cache policy.
func NewCachedSource(fetcher Fetcher, cfg CacheConfig) *CachedSource {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	refreshTimeout := cfg.RefreshTimeout
	if refreshTimeout <= 0 {
		refreshTimeout = DefaultRemoteTimeout + 5*time.Second
	}
	return &CachedSource{
		fetcher:        fetcher,
		ttl:            cfg.TTL,
		maxStale:       cfg.MaxStale,
		refreshTimeout: refreshTimeout,
		now:            now,
	}
}

// Fetch returns a cached document when one is fresh or within the stale
// window, triggering a background refresh in the latter case. Otherwise it
// blocks on a fetch shared by all concurrent callers.
func (c *CachedSource) Fetch(ctx context.Context) (*Document, error) {
	if c.ttl <= 0 {
		return c.fetcher.Fetch(ctx)
	}

	c.mu.RLock()
	doc, fetchedAt, gen := c.doc, c.fetchedAt, c.generation
	c.mu.RUnlock()

	if doc != nil {
		age := c.now().Sub(fetchedAt)
		if age < c.ttl {
			return doc, nil
		}
		if c.maxStale <= 0 || age < c.ttl+c.maxStale {
			c.revalidate(gen)
			return doc, nil
		}
	}

	v, err, _ := c.group.Do(flightKey(gen), func() (interface{}, error) {
		return c.refresh(context.WithoutCancel(ctx), gen)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Document), nil
}

// Invalidate drops the cached document so the next Fetch blocks on a refresh.
// A refresh already in flight is not stored once it completes.
func (c *CachedSource) Invalidate() {
	c.mu.Lock()
	c.generation++
	c.doc = nil
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
}

// Wait blocks until any background refresh has finished.
func (c *CachedSource) Wait() {
	c.wg.Wait()
}

// revalidate starts at most one background refresh.
func (c *CachedSource) revalidate(gen uint64) {
	c.mu.Lock()
	if c.refreshing {
		c.mu.Unlock()
		return
	}
	c.refreshing = true
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer func() {
			c.mu.Lock()
			c.refreshing = false
			c.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), c.refreshTimeout)
		defer cancel()

		_, err, _ := c.group.Do(flightKey(gen), func() (interface{}, error) {
			return c.refresh(ctx, gen)
		})
		if err != nil {
			log.Printf("[changelog] background refresh failed, keeping stale copy: %v", err)
		}
	}()
}

// refresh fetches from the underlying source and stores the result on
// success, unless the cache was invalidated after generation gen was read.
func (c *CachedSource) refresh(ctx context.Context, gen uint64) (*Document, error) {
	doc, err := c.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.generation == gen {
		c.doc = doc
		c.fetchedAt = c.now()
	}
	c.mu.Unlock()

	return doc, nil
}

// flightKey scopes shared fetches to a generation so callers arriving after
// Invalidate never join a fetch that started before it.
func flightKey(gen uint64) string {
	return refreshKey + "-" + strconv.FormatUint(gen, 10)
}
