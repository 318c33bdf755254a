package changelog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFetcher returns queued results in order, repeating the last one.
type stubFetcher struct {
	mu      sync.Mutex
	results []stubResult
	calls   atomic.Int32
	delay   time.Duration
}

type stubResult struct {
	doc *Document
	err error
}

func (s *stubFetcher) Fetch(ctx context.Context) (*Document, error) {
	n := int(s.calls.Add(1)) - 1
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if n >= len(s.results) {
		n = len(s.results) - 1
	}
	r := s.results[n]
	return r.doc, r.err
}

func docWithVersion(v string) *Document {
	return &Document{Entries: []Entry{{Version: v, Sections: Sections{}}}}
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestCachedSource_Fresh(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	stub := &stubFetcher{results: []stubResult{{doc: docWithVersion("1")}, {doc: docWithVersion("2")}}}
	cache := NewCachedSource(stub, CacheConfig{TTL: time.Minute, Now: clock.Now})

	first, err := cache.Fetch(context.Background())
	require.NoError(t, err)
	clock.Advance(30 * time.Second)
	second, err := cache.Fetch(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), stub.calls.Load())
}

func TestCachedSource_StaleWhileRevalidate(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	stub := &stubFetcher{results: []stubResult{{doc: docWithVersion("1")}, {doc: docWithVersion("2")}}}
	cache := NewCachedSource(stub, CacheConfig{TTL: time.Minute, MaxStale: time.Hour, Now: clock.Now})

	_, err := cache.Fetch(context.Background())
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	stale, err := cache.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", stale.Entries[0].Version)

	cache.Wait()
	fresh, err := cache.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2", fresh.Entries[0].Version)
	assert.Equal(t, int32(2), stub.calls.Load())
}

func TestCachedSource_FailedRefreshKeepsStale(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	stub := &stubFetcher{results: []stubResult{{doc: docWithVersion("1")}, {err: errors.New("boom")}}}
	cache := NewCachedSource(stub, CacheConfig{TTL: time.Minute, MaxStale: time.Hour, Now: clock.Now})

	_, err := cache.Fetch(context.Background())
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = cache.Fetch(context.Background())
	require.NoError(t, err)
	cache.Wait()

	doc, err := cache.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", doc.Entries[0].Version)
}

func TestCachedSource_BeyondMaxStaleBlocks(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	stub := &stubFetcher{results: []stubResult{{doc: docWithVersion("1")}, {doc: docWithVersion("2")}}}
	cache := NewCachedSource(stub, CacheConfig{TTL: time.Minute, MaxStale: time.Minute, Now: clock.Now})

	_, err := cache.Fetch(context.Background())
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)
	doc, err := cache.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2", doc.Entries[0].Version)
}

func TestCachedSource_ErrorsNotCached(t *testing.T) {
	stub := &stubFetcher{results: []stubResult{{err: errors.New("down")}, {doc: docWithVersion("1")}}}
	cache := NewCachedSource(stub, CacheConfig{TTL: time.Hour})

	_, err := cache.Fetch(context.Background())
	require.Error(t, err)

	doc, err := cache.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", doc.Entries[0].Version)
}

func TestCachedSource_Disabled(t *testing.T) {
	stub := &stubFetcher{results: []stubResult{{doc: docWithVersion("1")}, {doc: docWithVersion("2")}}}
	cache := NewCachedSource(stub, CacheConfig{TTL: 0})

	first, err := cache.Fetch(context.Background())
	require.NoError(t, err)
	second, err := cache.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "1", first.Entries[0].Version)
	assert.Equal(t, "2", second.Entries[0].Version)
}

func TestCachedSource_Invalidate(t *testing.T) {
	stub := &stubFetcher{results: []stubResult{{doc: docWithVersion("1")}, {doc: docWithVersion("2")}}}
	cache := NewCachedSource(stub, CacheConfig{TTL: time.Hour})

	_, err := cache.Fetch(context.Background())
	require.NoError(t, err)
	cache.Invalidate()

	doc, err := cache.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2", doc.Entries[0].Version)
}

func TestCachedSource_ConcurrentMissSharesFetch(t *testing.T) {
	stub := &stubFetcher{results: []stubResult{{doc: docWithVersion("1")}}, delay: 50 * time.Millisecond}
	cache := NewCachedSource(stub, CacheConfig{TTL: time.Hour})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := cache.Fetch(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "1", doc.Entries[0].Version)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, stub.calls.Load(), int32(2))
}

// gatedFetcher blocks its first call until release is closed.
type gatedFetcher struct {
	entered chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (g *gatedFetcher) Fetch(ctx context.Context) (*Document, error) {
	n := g.calls.Add(1)
	if n == 1 {
		close(g.entered)
		<-g.release
		return docWithVersion("before-edit"), nil
	}
	return docWithVersion("after-edit"), nil
}

func TestCachedSource_InvalidateDuringFetch(t *testing.T) {
	gated := &gatedFetcher{entered: make(chan struct{}), release: make(chan struct{})}
	cache := NewCachedSource(gated, CacheConfig{TTL: time.Hour})

	done := make(chan *Document)
	go func() {
		doc, err := cache.Fetch(context.Background())
		assert.NoError(t, err)
		done <- doc
	}()

	<-gated.entered
	cache.Invalidate()
	close(gated.release)
	inflight := <-done
	assert.Equal(t, "before-edit", inflight.Entries[0].Version)

	doc, err := cache.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "after-edit", doc.Entries[0].Version, "result fetched before Invalidate is not stored")
	assert.Equal(t, int32(2), gated.calls.Load())

	doc, err = cache.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "after-edit", doc.Entries[0].Version)
	assert.Equal(t, int32(2), gated.calls.Load())
}

func TestCachedSource_InvalidateStartsNewSharedFetch(t *testing.T) {
	gated := &gatedFetcher{entered: make(chan struct{}), release: make(chan struct{})}
	cache := NewCachedSource(gated, CacheConfig{TTL: time.Hour})

	go func() {
		_, _ = cache.Fetch(context.Background())
	}()
	<-gated.entered
	cache.Invalidate()

	doc, err := cache.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "after-edit", doc.Entries[0].Version, "caller after Invalidate does not join the earlier fetch")

	close(gated.release)
}
