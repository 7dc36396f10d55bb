package artifact

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gocloud.dev/blob/memblob"

	"github.com/allisson/resumes/internal/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, storage.BlobStore) {
	t.Helper()

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() {
		_ = bucket.Close()
	})

	store := storage.NewBucketStore(bucket, false)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewCache(store, ttl, logger), store
}

func countingRender(counter *atomic.Int32, data []byte) RenderFunc {
	return func(ctx context.Context) ([]byte, error) {
		counter.Add(1)
		return data, nil
	}
}

func TestCache_GetOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_MissRendersAndPersists", func(t *testing.T) {
		cache, store := newTestCache(t, time.Hour)
		var renders atomic.Int32

		data, err := cache.GetOrCreate(ctx, "resume-1", countingRender(&renders, []byte("shot-1")))
		require.NoError(t, err)
		assert.Equal(t, []byte("shot-1"), data)
		assert.Equal(t, int32(1), renders.Load())

		keys, err := store.List(ctx, "screenshots/resume-1")
		require.NoError(t, err)
		assert.Len(t, keys, 1)
	})

	t.Run("Success_FreshHitSkipsRender", func(t *testing.T) {
		cache, _ := newTestCache(t, time.Hour)
		var renders atomic.Int32

		first, err := cache.GetOrCreate(ctx, "resume-1", countingRender(&renders, []byte("shot-1")))
		require.NoError(t, err)

		second, err := cache.GetOrCreate(ctx, "resume-1", countingRender(&renders, []byte("shot-2")))
		require.NoError(t, err)

		assert.Equal(t, first, second, "cached output must be byte-identical within the TTL")
		assert.Equal(t, int32(1), renders.Load(), "a fresh entry must not trigger a second render")
	})

	t.Run("Success_StaleEntryIsPurgedAndRegenerated", func(t *testing.T) {
		cache, store := newTestCache(t, time.Hour)
		var renders atomic.Int32

		_, err := cache.GetOrCreate(ctx, "resume-1", countingRender(&renders, []byte("old")))
		require.NoError(t, err)

		// Age the cache past the TTL
		cache.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

		data, err := cache.GetOrCreate(ctx, "resume-1", countingRender(&renders, []byte("new")))
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), data)
		assert.Equal(t, int32(2), renders.Load())

		keys, err := store.List(ctx, "screenshots/resume-1")
		require.NoError(t, err)
		assert.Len(t, keys, 1, "all prior entries must be removed on refresh")
	})

	t.Run("Success_IndependentResources", func(t *testing.T) {
		cache, _ := newTestCache(t, time.Hour)
		var renders atomic.Int32

		a, err := cache.GetOrCreate(ctx, "resume-a", countingRender(&renders, []byte("shot-a")))
		require.NoError(t, err)
		b, err := cache.GetOrCreate(ctx, "resume-b", countingRender(&renders, []byte("shot-b")))
		require.NoError(t, err)

		assert.Equal(t, []byte("shot-a"), a)
		assert.Equal(t, []byte("shot-b"), b)
		assert.Equal(t, int32(2), renders.Load())
	})

	t.Run("Failure_RenderErrorPropagates", func(t *testing.T) {
		cache, store := newTestCache(t, time.Hour)

		_, err := cache.GetOrCreate(ctx, "resume-1", func(ctx context.Context) ([]byte, error) {
			return nil, fmt.Errorf("backend down")
		})
		require.Error(t, err)

		keys, err := store.List(ctx, "screenshots/resume-1")
		require.NoError(t, err)
		assert.Empty(t, keys, "a failed render must not leave a cache entry")
	})
}

func TestCache_SingleFlight(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t, time.Hour)

	var renders atomic.Int32
	release := make(chan struct{})
	render := func(ctx context.Context) ([]byte, error) {
		renders.Add(1)
		<-release
		return []byte("shot"), nil
	}

	const callers = 10
	results := make([][]byte, callers)
	errs := make([]error, callers)

	var started sync.WaitGroup
	var done sync.WaitGroup
	started.Add(callers)
	done.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer done.Done()
			started.Done()
			results[i], errs[i] = cache.GetOrCreate(ctx, "resume-1", render)
		}(i)
	}

	started.Wait()
	// Give every goroutine a chance to join the in-flight render
	time.Sleep(50 * time.Millisecond)
	close(release)
	done.Wait()

	assert.Equal(t, int32(1), renders.Load(), "concurrent misses must coalesce into one render")
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, []byte("shot"), results[i])
	}
}

func TestNewestEntry(t *testing.T) {
	t.Run("Success_PicksMostRecent", func(t *testing.T) {
		key, createdAt, ok := newestEntry([]string{
			"screenshots/r1/100.webp",
			"screenshots/r1/300.webp",
			"screenshots/r1/200.webp",
		})
		require.True(t, ok)
		assert.Equal(t, "screenshots/r1/300.webp", key)
		assert.Equal(t, time.UnixMilli(300), createdAt)
	})

	t.Run("Success_IgnoresUnparseableKeys", func(t *testing.T) {
		key, _, ok := newestEntry([]string{
			"screenshots/r1/not-a-timestamp.webp",
			"screenshots/r1/100.webp",
		})
		require.True(t, ok)
		assert.Equal(t, "screenshots/r1/100.webp", key)
	})

	t.Run("Failure_NoEntries", func(t *testing.T) {
		_, _, ok := newestEntry(nil)
		assert.False(t, ok)
	})
}
