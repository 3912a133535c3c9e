package recommend

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/popcornpicks/popcornpicks-server/internal/metadata"
)

func TestRequestCache_FetchesOncePerTitle(t *testing.T) {
	f := newFakeFetcher().found("Inception", "Sci-Fi")
	cache := NewRequestCache(f)

	first := cache.Resolve(context.Background(), "Inception")
	second := cache.Resolve(context.Background(), "Inception")
	missing := cache.Resolve(context.Background(), "Nope")
	cache.Resolve(context.Background(), "Nope")

	assert.True(t, first.Found)
	assert.Equal(t, first, second)
	assert.Equal(t, metadata.ReasonNotFound, missing.Reason)
	assert.Equal(t, 1, f.callsFor("Inception"))
	assert.Equal(t, 1, f.callsFor("Nope"), "failures are memoized too")
	assert.Equal(t, 2, cache.Len())
}

func TestRequestCache_ConcurrentCallersShareFlight(t *testing.T) {
	var calls atomic.Int32
	fetcher := metadata.FetcherFunc(func(_ context.Context, title string) metadata.Result {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return metadata.Found(metadata.Result{Title: title, Genres: []string{"Drama"}})
	})
	cache := NewRequestCache(fetcher)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := cache.Resolve(context.Background(), "Parasite")
			assert.True(t, res.Found)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestRequestCache_IgnoresSurroundingSpace(t *testing.T) {
	f := newFakeFetcher().found("Inception", "Sci-Fi")
	cache := NewRequestCache(f)

	first := cache.Resolve(context.Background(), "Inception")
	second := cache.Resolve(context.Background(), " Inception ")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.callsFor("Inception"))
	assert.Equal(t, 1, cache.Len())
}

func TestRequestCache_TitlesAreExact(t *testing.T) {
	f := newFakeFetcher().found("Heat", "Crime").found("heat", "Crime")
	cache := NewRequestCache(f)

	cache.Resolve(context.Background(), "Heat")
	cache.Resolve(context.Background(), "heat")

	assert.Equal(t, 2, f.totalCalls())
}
