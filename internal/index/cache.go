package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ErrUnavailable indicates index construction for the domain failed. The
// failure is cached: the build is attempted at most once per domain per
// process, and a fresh attempt only happens after restart.
var ErrUnavailable = errors.New("index unavailable")

// Loader retrieves the raw source text for a domain.
// domain.Store satisfies this interface.
type Loader interface {
	Load(ctx context.Context, domainID string) (string, error)
}

// CacheConfig contains the dependencies and tuning for a Cache.
type CacheConfig struct {
	Loader       Loader
	Embedder     Embedder
	ChunkSize    int // 0 = DefaultChunkSize
	ChunkOverlap int // 0 = DefaultChunkOverlap
	Logger       *slog.Logger
}

// Cache lazily materializes and memoizes one Index per domain.
//
// Concurrency discipline: at most one build is in flight per domain.
// Concurrent first requests for the same domain wait on the in-flight build
// via singleflight rather than each calling the embedding backend. Distinct
// domains build independently and in parallel. A built Index is read-only
// and shared freely afterwards.
type Cache struct {
	loader       Loader
	embedder     Embedder
	chunkSize    int
	chunkOverlap int
	logger       *slog.Logger

	group singleflight.Group

	mu      sync.RWMutex
	indexes map[string]*Index // nil value = construction failed, do not retry
}

// NewCache creates a Cache with the given configuration.
func NewCache(cfg CacheConfig) *Cache {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	chunkOverlap := cfg.ChunkOverlap
	if chunkOverlap <= 0 {
		chunkOverlap = DefaultChunkOverlap
	}

	return &Cache{
		loader:       cfg.Loader,
		embedder:     cfg.Embedder,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		logger:       logger,
		indexes:      make(map[string]*Index),
	}
}

// GetOrBuild returns the Index for a domain, building it on first request.
// Both terminal outcomes are memoized: a successful build returns the same
// Index forever after, and a failed build returns ErrUnavailable without
// repeating the expensive work.
func (c *Cache) GetOrBuild(ctx context.Context, domainID string) (*Index, error) {
	if ix, ok := c.lookup(domainID); ok {
		if ix == nil {
			return nil, ErrUnavailable
		}
		return ix, nil
	}

	v, err, _ := c.group.Do(domainID, func() (any, error) {
		// A build may have completed between the lookup and entering the group.
		if ix, ok := c.lookup(domainID); ok {
			if ix == nil {
				return nil, ErrUnavailable
			}
			return ix, nil
		}

		// The outcome is memoized process-wide and shared by every caller
		// waiting on this build, so it must not inherit the first caller's
		// cancellation: an aborted request would otherwise record a permanent
		// ErrUnavailable for a healthy backend.
		ix, buildErr := c.build(context.WithoutCancel(ctx), domainID)

		c.mu.Lock()
		c.indexes[domainID] = ix // nil on failure, by design
		c.mu.Unlock()

		if buildErr != nil {
			c.logger.Warn("index build failed, caching unavailable outcome",
				"domain", domainID,
				"error", buildErr,
			)
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, buildErr)
		}

		c.logger.Info("index built", "domain", domainID, "chunks", ix.Len())
		return ix, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Index), nil
}

// Retrieve is the retrieval entry point used per chat turn: resolve the
// domain's index and return the texts of the top-k chunks for the query,
// rank order preserved.
func (c *Cache) Retrieve(ctx context.Context, domainID, query string, k int) ([]string, error) {
	ix, err := c.GetOrBuild(ctx, domainID)
	if err != nil {
		return nil, err
	}

	results, err := ix.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Text
	}
	return texts, nil
}

func (c *Cache) lookup(domainID string) (*Index, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ix, ok := c.indexes[domainID]
	return ix, ok
}

func (c *Cache) build(ctx context.Context, domainID string) (*Index, error) {
	text, err := c.loader.Load(ctx, domainID)
	if err != nil {
		return nil, err
	}

	chunks := Split(text, c.chunkSize, c.chunkOverlap)
	return Build(ctx, c.embedder, chunks)
}
