package taxsearch

import (
	"regexp"
	"strings"
	"time"

	"nhctax-backend/lib/scrapers/nhctax"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

var queryWhitespace = regexp.MustCompile(`\s+`)

// normalizeQuery folds case and collapses whitespace so equivalent
// queries share one cache entry.
func normalizeQuery(query string) string {
	query = strings.ToLower(strings.TrimSpace(query))
	return queryWhitespace.ReplaceAllString(query, " ")
}

// resultCache partitions cached envelopes per search mode, each
// partition bounded by TTL and an LRU capacity. A disabled cache is
// a permanent miss.
type resultCache struct {
	enabled bool
	search  map[nhctax.SearchMode]*expirable.LRU[string, SearchResult]
	detail  *expirable.LRU[string, DetailResult]
}

func newResultCache(enabled bool, ttl time.Duration, maxSize int) *resultCache {
	if !enabled {
		return &resultCache{}
	}
	if maxSize <= 0 {
		maxSize = DefaultConfig().CacheMaxSize
	}
	search := map[nhctax.SearchMode]*expirable.LRU[string, SearchResult]{}
	for _, mode := range []nhctax.SearchMode{nhctax.ModeOwner, nhctax.ModeAddress, nhctax.ModeParcel} {
		search[mode] = expirable.NewLRU[string, SearchResult](maxSize, nil, ttl)
	}
	return &resultCache{
		enabled: true,
		search:  search,
		detail:  expirable.NewLRU[string, DetailResult](maxSize, nil, ttl),
	}
}

func (c *resultCache) getSearch(mode nhctax.SearchMode, key string) (SearchResult, bool) {
	if !c.enabled {
		return SearchResult{}, false
	}
	return c.search[mode].Get(key)
}

func (c *resultCache) putSearch(mode nhctax.SearchMode, key string, result SearchResult) {
	if !c.enabled {
		return
	}
	c.search[mode].Add(key, result)
}

func (c *resultCache) getDetail(key string) (DetailResult, bool) {
	if !c.enabled {
		return DetailResult{}, false
	}
	return c.detail.Get(key)
}

func (c *resultCache) putDetail(key string, result DetailResult) {
	if !c.enabled {
		return
	}
	c.detail.Add(key, result)
}

// clear purges the named partition, or every partition for "all".
// The second return is false for an unknown scope.
func (c *resultCache) clear(scope string) ([]string, bool) {
	if !c.enabled {
		return nil, true
	}

	var cleared []string
	for _, mode := range []nhctax.SearchMode{nhctax.ModeOwner, nhctax.ModeAddress, nhctax.ModeParcel} {
		if scope == "all" || scope == string(mode) {
			c.search[mode].Purge()
			cleared = append(cleared, string(mode))
		}
	}
	if scope == "all" || scope == string(nhctax.ModeDetail) {
		c.detail.Purge()
		cleared = append(cleared, string(nhctax.ModeDetail))
	}
	return cleared, len(cleared) > 0
}
