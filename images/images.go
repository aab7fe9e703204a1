// Fetch and decode images in various raster formats.
package images

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"image"
	"image/png"
	"sync"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	pr "github.com/benoitkugler/printlayout/css/properties"
	"github.com/benoitkugler/printlayout/logger"
)

// Image is the common interface for supported image formats.
type Image interface {
	// GetIntrinsicSize returns the natural size of the image, in CSS pixels.
	GetIntrinsicSize() (width, height pr.Float)

	isImage()
}

var _ Image = (*RasterImage)(nil)

// An error occured when loading an image.
// The image data is probably corrupted or in an invalid format.
func imageLoadingError(err error) error {
	return fmt.Errorf("error loading image: %w", err)
}

// Cache stores the result of fetching an image,
// including failures (as nil images).
// It is safe for concurrent use.
type Cache struct {
	mu     sync.Mutex
	images map[string]Image
}

func NewCache() *Cache { return &Cache{images: make(map[string]Image)} }

// GetImageFromUri gets an image from an image URI.
// In case of an error, a warning is logged and nil is returned.
func GetImageFromUri(cache *Cache, fetcher UrlFetcher, url string) Image {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	if res, in := cache.images[url]; in {
		return res
	}

	img, err := getImageFromUri(fetcher, url)
	if err != nil {
		logger.WarningLogger.With("url", url).Warnf("Failed to load image: %s", err)
		cache.images[url] = nil
		return nil
	}
	cache.images[url] = img
	return img
}

func getImageFromUri(fetcher UrlFetcher, url string) (*RasterImage, error) {
	content, err := fetcher(url)
	if err != nil {
		return nil, fmt.Errorf(`failed to fetch image at "%s": %w`, url, err)
	}
	return LoadImage(content.Content, Hash(url))
}

// Hash creates an ID from a string.
func Hash(s string) int {
	h := fnv.New32()
	h.Write([]byte(s))
	return int(h.Sum32())
}

// RasterImage is a decoded bitmap image.
type RasterImage struct {
	Image image.Image

	// Content is the original encoded data.
	Content []byte
	// Format is the name returned by [image.Decode], like "png" or "jpeg".
	Format string
	// ID identifies the source of the image.
	ID int

	intrinsicWidth  pr.Float
	intrinsicHeight pr.Float
}

// LoadImage decodes an image in one of the supported formats:
// PNG, JPEG, GIF, BMP, TIFF and WebP.
func LoadImage(content []byte, id int) (*RasterImage, error) {
	img, format, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, imageLoadingError(err)
	}
	bounds := img.Bounds()
	return &RasterImage{
		Image:           img,
		Content:         content,
		Format:          format,
		ID:              id,
		intrinsicWidth:  pr.Float(bounds.Dx()),
		intrinsicHeight: pr.Float(bounds.Dy()),
	}, nil
}

func (*RasterImage) isImage() {}

// GetIntrinsicSize returns the size in pixels, one image pixel
// being one CSS pixel.
func (r *RasterImage) GetIntrinsicSize() (width, height pr.Float) {
	return r.intrinsicWidth, r.intrinsicHeight
}

// PNG returns the image encoded as PNG, re-encoding it if needed.
func (r *RasterImage) PNG() ([]byte, error) {
	if r.Format == "png" {
		return r.Content, nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, r.Image); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
