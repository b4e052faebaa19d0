package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// ImageCache provides thread-safe caching of decoded images keyed by file
// path or by a caller-chosen name.
//
// Images loaded from disk are keyed by the exact path string; images that
// arrive as bytes or data URLs are stored with Put under any key the caller
// likes.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or
// Clear(). Pixel-art assets are tiny, so the server keeps them for its
// whole lifetime.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/path/to/sprite.png")
//	if err != nil {
//	    return err
//	}
//	cache.Put("upload-1", other)
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load retrieves an image from the cache or decodes it from disk if not
// cached.
//
// Parameters:
//   - path: Absolute or relative file path. Any format registered with
//     disintegration/imaging is accepted (PNG, JPEG, GIF, BMP, TIFF).
//
// Returns:
//   - image.Image: The decoded image.
//   - error: Non-nil if the file cannot be opened or decoded.
func (c *ImageCache) Load(path string) (image.Image, error) {
	if img, ok := c.Get(path); ok {
		return img, nil
	}

	img, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}

	c.Put(path, img)
	return img, nil
}

// Get returns the image stored under key, if any.
func (c *ImageCache) Get(key string) (image.Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.images[key]
	return img, ok
}

// Put stores img under key, replacing any previous entry.
func (c *ImageCache) Put(key string, img image.Image) {
	c.mu.Lock()
	c.images[key] = img
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache. Unknown keys are ignored.
func (c *ImageCache) Evict(key string) {
	c.mu.Lock()
	delete(c.images, key)
	c.mu.Unlock()
}

// DecodeFile opens and decodes the image at path.
func DecodeFile(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return img, nil
}

// ImageInfo contains metadata about an image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format detected from the file extension: "png",
	// "jpeg", "gif", or "unknown".
	Format string `json:"format"`

	// HasAlpha indicates whether the decoded image carries an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through cache and returns its metadata.
//
// Parameters:
//   - cache: The image cache to use for loading. Must not be nil.
//   - path: Path to the image file.
//
// Returns:
//   - *ImageInfo: Metadata about the image.
//   - error: Non-nil if the image cannot be loaded or the file cannot be stat'd.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	}

	hasAlpha := false
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64, *image.Paletted:
		hasAlpha = true
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		HasAlpha:      hasAlpha,
		FileSizeBytes: stat.Size(),
	}, nil
}
