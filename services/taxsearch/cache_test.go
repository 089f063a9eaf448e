package taxsearch

import (
	"testing"
	"time"

	"nhctax-backend/lib/scrapers/nhctax"

	"github.com/stretchr/testify/require"
)

func TestNormalizeQuery(t *testing.T) {
	require.Equal(t, "smith john", normalizeQuery("  SMITH   John "))
	require.Equal(t, "123 main st", normalizeQuery("123 Main\tSt"))
}

func TestCacheEquivalentQueriesShareEntry(t *testing.T) {
	cache := newResultCache(true, time.Hour, 10)

	result := SearchResult{Success: true, Query: "SMITH", ResultsCount: 2}
	cache.putSearch(nhctax.ModeOwner, normalizeQuery("SMITH"), result)

	cached, hit := cache.getSearch(nhctax.ModeOwner, normalizeQuery("  smith "))
	require.True(t, hit)
	require.Equal(t, 2, cached.ResultsCount)
}

func TestCacheTTLExpiry(t *testing.T) {
	cache := newResultCache(true, 20*time.Millisecond, 10)
	cache.putSearch(nhctax.ModeOwner, "smith", SearchResult{Success: true})

	_, hit := cache.getSearch(nhctax.ModeOwner, "smith")
	require.True(t, hit)

	time.Sleep(30 * time.Millisecond)
	_, hit = cache.getSearch(nhctax.ModeOwner, "smith")
	require.False(t, hit, "entries older than the TTL must never be served")
}

func TestCacheLRUBound(t *testing.T) {
	cache := newResultCache(true, time.Hour, 2)

	cache.putSearch(nhctax.ModeOwner, "a", SearchResult{Query: "a"})
	cache.putSearch(nhctax.ModeOwner, "b", SearchResult{Query: "b"})
	// touch "a" so "b" is the least recently used
	_, hit := cache.getSearch(nhctax.ModeOwner, "a")
	require.True(t, hit)

	cache.putSearch(nhctax.ModeOwner, "c", SearchResult{Query: "c"})

	_, hit = cache.getSearch(nhctax.ModeOwner, "b")
	require.False(t, hit, "least-recently-used entry should be evicted")
	_, hit = cache.getSearch(nhctax.ModeOwner, "a")
	require.True(t, hit)
	_, hit = cache.getSearch(nhctax.ModeOwner, "c")
	require.True(t, hit)
}

func TestCacheClearScopes(t *testing.T) {
	cache := newResultCache(true, time.Hour, 10)
	cache.putSearch(nhctax.ModeOwner, "smith", SearchResult{})
	cache.putSearch(nhctax.ModeAddress, "main st", SearchResult{})
	cache.putDetail("r01234", DetailResult{})

	cleared, ok := cache.clear("owner")
	require.True(t, ok)
	require.Equal(t, []string{"owner"}, cleared)

	_, hit := cache.getSearch(nhctax.ModeOwner, "smith")
	require.False(t, hit)
	_, hit = cache.getSearch(nhctax.ModeAddress, "main st")
	require.True(t, hit, "other modes must be left intact")

	cleared, ok = cache.clear("all")
	require.True(t, ok)
	require.ElementsMatch(t, []string{"owner", "address", "parcel", "detail"}, cleared)

	_, hit = cache.getSearch(nhctax.ModeAddress, "main st")
	require.False(t, hit)
	_, hit = cache.getDetail("r01234")
	require.False(t, hit)

	_, ok = cache.clear("bogus")
	require.False(t, ok)
}

func TestCacheDisabled(t *testing.T) {
	cache := newResultCache(false, time.Hour, 10)
	cache.putSearch(nhctax.ModeOwner, "smith", SearchResult{Success: true})

	_, hit := cache.getSearch(nhctax.ModeOwner, "smith")
	require.False(t, hit)
}
