package engine

import (
	"image"

	"github.com/go-theft-auto/engine/cache"
)

// TextureKey uniquely identifies a decoded image resource: the source path
// plus the load parameters that affect the decoded pixels. Immutable and
// comparable, so it can key the cache directly.
type TextureKey struct {
	Path string

	// MaxWidth and MaxHeight bound the decoded size (aspect preserved).
	// Zero means unbounded.
	MaxWidth  int
	MaxHeight int
}

// Textures caches decoded images behind a bounded LRU so repeated loads of
// the same asset decode once. The cache owns the decoded pixels; an
// evicted entry's release hook tells the backend to drop any GPU-side copy
// it uploaded, keeping the cache backend-agnostic.
//
// Textures is used from the engine loop goroutine; it is not safe for
// concurrent use.
type Textures struct {
	lru *cache.LRU[TextureKey, *image.RGBA]

	// load produces pixels for a missing key. Swapped in tests.
	load func(TextureKey) (*image.RGBA, error)
}

func newTextures(capacity int) *Textures {
	return &Textures{
		lru: cache.New[TextureKey, *image.RGBA](capacity),
		load: func(k TextureKey) (*image.RGBA, error) {
			return loadImageFile(k.Path, k.MaxWidth, k.MaxHeight)
		},
	}
}

// Load returns the decoded image for key, decoding it on first use.
// Decode failures propagate to the caller and leave the cache unchanged;
// they never affect the engine lifecycle, so callers can retry or fall
// back to a placeholder.
//
// The returned image is valid until the next eviction-triggering Load;
// don't hold it across one without re-fetching.
func (t *Textures) Load(key TextureKey) (*image.RGBA, error) {
	return t.lru.GetOrInsert(key, func() (*image.RGBA, error) {
		return t.load(key)
	})
}

// Contains reports whether key is currently cached, without updating its
// recency.
func (t *Textures) Contains(key TextureKey) bool { return t.lru.Contains(key) }

// Evict removes a cached image, firing the release hook.
func (t *Textures) Evict(key TextureKey) bool { return t.lru.Delete(key) }

// Clear drops every cached image, firing the release hook for each.
func (t *Textures) Clear() { t.lru.Clear() }

// OnRelease registers a hook invoked once for every image that leaves the
// cache. Backends subscribe to release GPU textures; the cache never calls
// into backend code directly.
func (t *Textures) OnRelease(fn func(TextureKey)) {
	if fn == nil {
		t.lru.OnEvict(nil)
		return
	}
	t.lru.OnEvict(func(k TextureKey, _ *image.RGBA) { fn(k) })
}

// Len returns the number of cached images.
func (t *Textures) Len() int { return t.lru.Len() }

// Stats returns cache effectiveness counters.
func (t *Textures) Stats() cache.Stats { return t.lru.Stats() }
