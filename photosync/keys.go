package photosync

import (
	"path"
	"path/filepath"
	"strings"
)

// ThumbnailPrefix is the remote prefix under which thumbnail renditions
// live. Keys below it mirror the original keys one-to-one.
const ThumbnailPrefix = "thumbnails/"

// MetadataPrefix marks remote keys that are not photo objects (site
// metadata exports). The deployer never uploads or prunes below it.
const MetadataPrefix = "metadata/"

// PhotoID derives a photo's stable identity from its path relative to the
// photo root. The identity is the slash-normalized relative path itself, so
// the same file always maps to the same id and the remote key scheme below
// stays a pure function of it.
func PhotoID(relativePath string) string {
	return path.Clean(filepath.ToSlash(relativePath))
}

// OriginalKey returns the remote object key for a photo's original bytes.
func OriginalKey(id string) string {
	return id
}

// ThumbnailKey returns the remote object key for a photo's thumbnail.
// Thumbnails are always JPEG-encoded regardless of the source format, but
// keep the source key under the thumbnail prefix so original and rendition
// pair up in listings.
func ThumbnailKey(id string) string {
	return ThumbnailPrefix + id
}

// AlbumOf returns the album a relative path belongs to: the first path
// element when the file sits in a subdirectory, empty for root-level files.
// Deeper nesting still attributes the photo to the top-level folder.
func AlbumOf(relativePath string) string {
	rel := filepath.ToSlash(relativePath)
	if i := strings.IndexByte(rel, '/'); i > 0 {
		return rel[:i]
	}
	return ""
}

// ContentTypeForPath maps a photo path to its MIME type. Unsupported
// extensions fall back to application/octet-stream.
func ContentTypeForPath(p string) string {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// docIDForPhoto maps a photo id to a Firestore document id. Document ids
// cannot contain forward slashes, so they are swapped for a pipe; the
// slash form is restored when records are read back.
func docIDForPhoto(id string) string {
	return strings.ReplaceAll(id, "/", "|")
}

func photoIDForDoc(docID string) string {
	return strings.ReplaceAll(docID, "|", "/")
}
