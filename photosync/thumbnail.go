package photosync

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"sync"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/webp"
)

// DefaultThumbnailMaxDim is the default bound on a thumbnail's longest edge.
const DefaultThumbnailMaxDim = 400

const thumbnailJPEGQuality = 85

// ThumbnailOption configures ThumbnailGenerator
type ThumbnailOption func(*ThumbnailGenerator)

// WithMaxDimension configures the bound on the thumbnail's longest edge
func WithMaxDimension(px int) ThumbnailOption {
	return func(g *ThumbnailGenerator) {
		g.maxDim = px
	}
}

type cachedThumbnail struct {
	signature string
	data      []byte
}

// ThumbnailGenerator scales photos down to web-friendly JPEG renditions.
// Generated bytes are cached per photo keyed by the source signature, so a
// deploy after an unchanged sync reuses renditions instead of re-encoding.
type ThumbnailGenerator struct {
	maxDim int

	mu    sync.Mutex
	cache map[string]cachedThumbnail
}

// NewThumbnailGenerator creates a new ThumbnailGenerator with the given options
func NewThumbnailGenerator(opts ...ThumbnailOption) *ThumbnailGenerator {
	g := &ThumbnailGenerator{
		maxDim: DefaultThumbnailMaxDim,
		cache:  make(map[string]cachedThumbnail),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// EnsureThumbnail returns the JPEG thumbnail bytes for the photo at srcPath.
// The boolean reports whether a fresh rendition was encoded; a cache hit for
// the same signature returns the stored bytes instead. An undecodable source
// is reported as corrupt media.
func (g *ThumbnailGenerator) EnsureThumbnail(photoID, srcPath, signature string) ([]byte, bool, error) {
	g.mu.Lock()
	if c, ok := g.cache[photoID]; ok && c.signature == signature {
		g.mu.Unlock()
		return c.data, false, nil
	}
	g.mu.Unlock()

	data, err := g.generate(srcPath)
	if err != nil {
		return nil, false, err
	}

	g.mu.Lock()
	g.cache[photoID] = cachedThumbnail{signature: signature, data: data}
	g.mu.Unlock()

	return data, true, nil
}

// Remove drops the cached rendition for a photo that no longer exists.
func (g *ThumbnailGenerator) Remove(photoID string) {
	g.mu.Lock()
	delete(g.cache, photoID)
	g.mu.Unlock()
}

func (g *ThumbnailGenerator) generate(srcPath string) ([]byte, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return nil, &ExtractionError{Path: srcPath, Err: err}
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, &CorruptMediaError{Path: srcPath, Err: err}
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	tw, th := w, h
	// Never upscale: small images are re-encoded at their native size.
	if w > g.maxDim || h > g.maxDim {
		if w >= h {
			tw = g.maxDim
			th = h * g.maxDim / w
		} else {
			th = g.maxDim
			tw = w * g.maxDim / h
		}
		if tw < 1 {
			tw = 1
		}
		if th < 1 {
			th = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbnailJPEGQuality}); err != nil {
		return nil, &ExtractionError{Path: srcPath, Err: err}
	}

	return buf.Bytes(), nil
}
