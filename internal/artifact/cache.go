// Package artifact caches rendered screenshots in the blob store with
// TTL-based invalidation. Cache entries embed their creation timestamp
// in the key, so concurrent writers never collide and freshness is
// decided by parsing keys rather than tracking state.
package artifact

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	apperrors "github.com/allisson/resumes/internal/errors"
	"github.com/allisson/resumes/internal/storage"
)

// RenderFunc produces fresh screenshot bytes for a resource.
type RenderFunc func(ctx context.Context) ([]byte, error)

// Cache serves a previously rendered screenshot while it is fresh and
// regenerates it when stale. Concurrent misses for the same resource are
// coalesced into a single render; different resources proceed
// independently.
type Cache struct {
	store  storage.BlobStore
	ttl    time.Duration
	logger *slog.Logger
	group  singleflight.Group
	now    func() time.Time
}

// NewCache creates a screenshot cache over the blob store.
func NewCache(store storage.BlobStore, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// GetOrCreate returns the cached screenshot for resourceID when one
// exists and is younger than the TTL, otherwise purges every entry for
// the resource, renders a fresh one, persists it and returns its bytes.
// The list-decide-regenerate-write sequence for one resource is
// serialized with respect to itself through single-flight.
func (c *Cache) GetOrCreate(ctx context.Context, resourceID string, render RenderFunc) ([]byte, error) {
	data, err, _ := c.group.Do(resourceID, func() (any, error) {
		return c.getOrCreate(ctx, resourceID, render)
	})
	if err != nil {
		return nil, err
	}
	return data.([]byte), nil
}

func (c *Cache) getOrCreate(ctx context.Context, resourceID string, render RenderFunc) ([]byte, error) {
	prefix := entryPrefix(resourceID)

	keys, err := c.store.List(ctx, prefix)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list cache entries")
	}

	if key, createdAt, ok := newestEntry(keys); ok {
		if c.now().Sub(createdAt) < c.ttl {
			obj, err := c.store.Read(ctx, key)
			if err == nil {
				return obj.Data, nil
			}
			// A concurrent sweep may have removed the entry between the
			// list and the read; regenerate in that case.
			if !apperrors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.Wrap(err, "failed to read cache entry")
			}
		}
	}

	c.purge(ctx, resourceID, keys)

	data, err := render(ctx)
	if err != nil {
		return nil, err
	}

	key := entryKey(resourceID, c.now().UnixMilli())
	if err := c.store.Write(ctx, key, data, "image/webp"); err != nil {
		return nil, apperrors.Wrap(err, "failed to write cache entry")
	}

	obj, err := c.store.Read(ctx, key)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read back cache entry")
	}

	return obj.Data, nil
}

// purge removes every entry for the resource. Individual deletion
// failures are logged and skipped rather than aborting the refresh.
func (c *Cache) purge(ctx context.Context, resourceID string, keys []string) {
	for _, key := range keys {
		if _, err := c.store.Delete(ctx, key); err != nil {
			c.logger.Warn("failed to delete stale screenshot",
				slog.String("resource_id", resourceID),
				slog.String("key", key),
				slog.Any("error", err),
			)
		}
	}
}

// entryPrefix is the cache namespace for one resource.
func entryPrefix(resourceID string) string {
	return fmt.Sprintf("screenshots/%s", resourceID)
}

// entryKey embeds the creation timestamp so entries are never mutated in
// place and concurrent writers never collide.
func entryKey(resourceID string, unixMilli int64) string {
	return fmt.Sprintf("screenshots/%s/%d.webp", resourceID, unixMilli)
}

// newestEntry parses the embedded timestamp of each key and returns the
// most recent entry. Keys without a parseable timestamp are ignored.
func newestEntry(keys []string) (string, time.Time, bool) {
	var (
		newestKey    string
		newestMillis int64
		found        bool
	)

	for _, key := range keys {
		name := strings.TrimSuffix(path.Base(key), path.Ext(key))
		millis, err := strconv.ParseInt(name, 10, 64)
		if err != nil {
			continue
		}
		if !found || millis > newestMillis {
			newestKey = key
			newestMillis = millis
			found = true
		}
	}

	if !found {
		return "", time.Time{}, false
	}
	return newestKey, time.UnixMilli(newestMillis), true
}
