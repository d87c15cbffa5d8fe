package scraping

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonathan/resume-tailor/internal/types"
)

// DefaultCacheTTL is how long a successful scrape is reused.
const DefaultCacheTTL = 24 * time.Hour

// Store persists successful extraction results keyed by normalized URL.
// Get returns nil, nil on a miss or when the entry is older than maxAge.
type Store interface {
	GetExtraction(ctx context.Context, url string, maxAge time.Duration) (*types.ExtractionResult, error)
	PutExtraction(ctx context.Context, url string, result types.ExtractionResult) error
}

// CachedScraper wraps an Extractor with a persistent cache and collapses
// concurrent scrapes of the same URL into one request.
type CachedScraper struct {
	next    Extractor
	store   Store
	ttl     time.Duration
	group   singleflight.Group
	Verbose bool
}

// NewCachedScraper creates a caching decorator. A nil store only de-duplicates
// concurrent calls.
func NewCachedScraper(next Extractor, store Store, ttl time.Duration) *CachedScraper {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedScraper{next: next, store: store, ttl: ttl}
}

// ExtractJobDescription returns a cached result when fresh, otherwise scrapes
// and caches successful results. Cache failures are logged and ignored.
func (c *CachedScraper) ExtractJobDescription(ctx context.Context, rawURL string) types.ExtractionResult {
	key := NormalizeURL(rawURL)

	if c.store != nil {
		cached, err := c.store.GetExtraction(ctx, key, c.ttl)
		if err != nil {
			log.Printf("[scrape] cache lookup failed for %s: %v", key, err)
		} else if cached != nil {
			if c.Verbose {
				log.Printf("[scrape] cache hit for %s", key)
			}
			return *cached
		}
	}

	// Callers sharing a flight observe the context of the first caller.
	v, _, _ := c.group.Do(key, func() (any, error) {
		result := c.next.ExtractJobDescription(ctx, rawURL)
		if result.Success && c.store != nil {
			if err := c.store.PutExtraction(ctx, key, result); err != nil {
				log.Printf("[scrape] cache store failed for %s: %v", key, err)
			}
		}
		return result, nil
	})
	return v.(types.ExtractionResult)
}
