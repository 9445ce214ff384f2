package photosync

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/rwcarlsen/goexif/exif"

	_ "golang.org/x/image/webp"
)

// CaptureExtractor reads image dimensions and EXIF capture metadata
// from photo files on disk.
type CaptureExtractor struct{}

// NewCaptureExtractor creates a new CaptureExtractor
func NewCaptureExtractor() *CaptureExtractor {
	return &CaptureExtractor{}
}

// ExtractCapture reads the dimensions and EXIF fields of the image at path.
// A file whose header cannot be decoded as an image is reported as corrupt.
// Missing or unparseable EXIF data is not an error: the affected fields are
// left at "Unknown", since PNG and screenshots routinely carry no EXIF block.
func (e *CaptureExtractor) ExtractCapture(path string) (CaptureMetadata, error) {
	meta := CaptureMetadata{
		Camera:       UnknownField,
		Lens:         UnknownField,
		ISO:          UnknownField,
		Aperture:     UnknownField,
		ShutterSpeed: UnknownField,
		DateTaken:    UnknownField,
	}

	f, err := os.Open(path)
	if err != nil {
		return meta, &ExtractionError{Path: path, Err: err}
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return meta, &CorruptMediaError{Path: path, Err: err}
	}
	meta.Width = cfg.Width
	meta.Height = cfg.Height
	if cfg.Height > 0 {
		meta.AspectRatio = float64(cfg.Width) / float64(cfg.Height)
	}

	if _, err := f.Seek(0, 0); err != nil {
		return meta, &ExtractionError{Path: path, Err: err}
	}

	x, err := exif.Decode(f)
	if err != nil {
		// No EXIF block at all. Dimensions alone are still a result.
		return meta, nil
	}

	if v := tagString(x, exif.Model); v != "" {
		meta.Camera = v
	}
	if v := tagString(x, exif.LensModel); v != "" {
		meta.Lens = v
	}
	if tag, err := x.Get(exif.ISOSpeedRatings); err == nil {
		if iso, err := tag.Int(0); err == nil {
			meta.ISO = fmt.Sprintf("%d", iso)
		}
	}
	if tag, err := x.Get(exif.FNumber); err == nil {
		if num, den, err := tag.Rat2(0); err == nil && den != 0 {
			meta.Aperture = fmt.Sprintf("f/%.1f", float64(num)/float64(den))
		}
	}
	if tag, err := x.Get(exif.ExposureTime); err == nil {
		if num, den, err := tag.Rat2(0); err == nil && den != 0 {
			meta.ShutterSpeed = fmt.Sprintf("%d/%d", num, den)
		}
	}
	if v := tagString(x, exif.DateTimeOriginal); v != "" {
		meta.DateTaken = v
	} else if v := tagString(x, exif.DateTime); v != "" {
		meta.DateTaken = v
	}

	return meta, nil
}

func tagString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	v, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return v
}
