package grove

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	_ "golang.org/x/image/webp" // register WebP decoder
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// defaultBatchLimit bounds concurrent fetches inside LoadBatch.
const defaultBatchLimit = 8

// ErrNoFetcher is returned when a TextureCache has no Fetcher configured.
var ErrNoFetcher = errors.New("grove: texture cache has no fetcher")

// Texture is a GPU-resident image handle. Textures are owned by the
// TextureCache that loaded them and shared by pointer with drawables.
type Texture struct {
	Key   string
	URL   string
	Image *ebiten.Image
	// Filter is always ebiten.FilterNearest; pixel art must not be smoothed.
	Filter ebiten.Filter
}

// Size returns the texture's pixel dimensions, or zero if it has no image.
func (t *Texture) Size() (w, h int) {
	if t == nil || t.Image == nil {
		return 0, 0
	}
	b := t.Image.Bounds()
	return b.Dx(), b.Dy()
}

// LoadError reports a texture that could not be fetched or decoded.
// Failed loads are never cached; calling LoadTexture again retries.
type LoadError struct {
	Key string
	URL string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("grove: load texture %q from %q: %v", e.Key, e.URL, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Fetcher retrieves the encoded bytes for a texture URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) (io.ReadCloser, error)

// Fetch calls f(ctx, url).
func (f FetcherFunc) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	return f(ctx, url)
}

// FSFetcher returns a Fetcher that opens URLs as paths inside fsys.
func FSFetcher(fsys fs.FS) Fetcher {
	return FetcherFunc(func(ctx context.Context, url string) (io.ReadCloser, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return fsys.Open(url)
	})
}

// DiskFetcher returns a Fetcher that opens URLs as local file paths.
func DiskFetcher() Fetcher {
	return FetcherFunc(func(ctx context.Context, url string) (io.ReadCloser, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return os.Open(url)
	})
}

// TextureCache loads and caches textures by key. Concurrent requests for a
// key that is already loading share one underlying fetch. It is the only
// grove type that is safe for concurrent use.
type TextureCache struct {
	mu       sync.RWMutex
	textures map[string]*Texture
	pending  map[string]struct{} // keys with a load in flight
	inflight singleflight.Group

	fetcher Fetcher

	// BatchLimit caps concurrent fetches in LoadBatch. Zero means 8.
	BatchLimit int

	// newImage uploads a decoded image; replaced in tests.
	newImage func(image.Image) *ebiten.Image
}

// NewTextureCache creates an empty cache that fetches through f.
// A nil fetcher reads from local disk.
func NewTextureCache(f Fetcher) *TextureCache {
	if f == nil {
		f = DiskFetcher()
	}
	return &TextureCache{
		textures: make(map[string]*Texture),
		pending:  make(map[string]struct{}),
		fetcher:  f,
		newImage: ebiten.NewImageFromImage,
	}
}

// LoadTexture returns the cached texture for key, joins an in-flight load of
// the same key, or starts a new load of url. On failure it returns a
// *LoadError and caches nothing.
//
// The caller's ctx only bounds how long this call waits; a load other
// callers have joined keeps running.
func (c *TextureCache) LoadTexture(ctx context.Context, key, url string) (*Texture, error) {
	if t, ok := c.Texture(key); ok {
		return t, nil
	}
	ch := c.inflight.DoChan(key, func() (any, error) {
		// A load that finished between the lookup above and DoChan has
		// already cached its result.
		if t, ok := c.Texture(key); ok {
			return t, nil
		}
		c.setPending(key, true)
		defer c.setPending(key, false)
		return c.load(context.WithoutCancel(ctx), key, url)
	})
	select {
	case <-ctx.Done():
		return nil, &LoadError{Key: key, URL: url, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Texture), nil
	}
}

// load fetches, decodes, uploads, and caches a single texture.
func (c *TextureCache) load(ctx context.Context, key, url string) (*Texture, error) {
	if c.fetcher == nil {
		return nil, &LoadError{Key: key, URL: url, Err: ErrNoFetcher}
	}
	rc, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		Logger().Warn("texture fetch failed", "key", key, "url", url, "err", err)
		return nil, &LoadError{Key: key, URL: url, Err: err}
	}
	defer rc.Close()

	img, _, err := image.Decode(rc)
	if err != nil {
		Logger().Warn("texture decode failed", "key", key, "url", url, "err", err)
		return nil, &LoadError{Key: key, URL: url, Err: err}
	}

	t := &Texture{
		Key:    key,
		URL:    url,
		Image:  c.newImage(img),
		Filter: ebiten.FilterNearest,
	}
	c.mu.Lock()
	c.textures[key] = t
	c.mu.Unlock()
	Logger().Debug("texture loaded", "key", key, "url", url)
	return t, nil
}

// LoadBatch loads every key→url entry as one bulk operation. Each texture is
// cached individually as soon as it arrives, so a failing entry does not
// discard the others. The first error is returned after all loads finish.
func (c *TextureCache) LoadBatch(ctx context.Context, entries map[string]string) error {
	limit := c.BatchLimit
	if limit <= 0 {
		limit = defaultBatchLimit
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for key, url := range entries {
		g.Go(func() error {
			_, err := c.LoadTexture(ctx, key, url)
			return err
		})
	}
	err := g.Wait()
	Logger().Info("texture batch loaded", "count", len(entries), "err", err)
	return err
}

// Texture returns the cached texture for key without ever starting a load.
func (c *TextureCache) Texture(key string) (*Texture, bool) {
	c.mu.RLock()
	t, ok := c.textures[key]
	c.mu.RUnlock()
	return t, ok
}

// Image is a convenience that returns only the cached image for key, or nil.
func (c *TextureCache) Image(key string) *ebiten.Image {
	if t, ok := c.Texture(key); ok {
		return t.Image
	}
	return nil
}

// Len returns the number of cached textures.
func (c *TextureCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.textures)
}

// Pending reports whether a load for key is currently in flight.
func (c *TextureCache) Pending(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.pending[key]
	return ok
}

func (c *TextureCache) setPending(key string, on bool) {
	c.mu.Lock()
	if on {
		c.pending[key] = struct{}{}
	} else {
		delete(c.pending, key)
	}
	c.mu.Unlock()
}

// Clear drops all cache and in-flight bookkeeping. It does NOT deallocate
// images: handles still referenced by drawables stay valid but untracked, and
// reloading a key afterwards creates a second GPU image. A load that was in
// flight still completes and caches its result. Intended for tests.
func (c *TextureCache) Clear() {
	c.mu.Lock()
	keys := make([]string, 0, len(c.pending))
	for key := range c.pending {
		keys = append(keys, key)
	}
	c.textures = make(map[string]*Texture)
	c.pending = make(map[string]struct{})
	c.mu.Unlock()
	for _, key := range keys {
		c.inflight.Forget(key)
	}
}
