package photosync

import "testing"

func TestPhotoID(t *testing.T) {
	tests := []struct {
		name string
		rel  string
		want string
	}{
		{"simple", "pic.jpg", "pic.jpg"},
		{"nested", "landscapes/dunes.jpg", "landscapes/dunes.jpg"},
		{"deeply nested", "trips/2024/utah/arch.jpg", "trips/2024/utah/arch.jpg"},
		{"redundant segments", "./landscapes/dunes.jpg", "landscapes/dunes.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PhotoID(tt.rel); got != tt.want {
				t.Errorf("PhotoID(%q) = %q, want %q", tt.rel, got, tt.want)
			}
		})
	}
}

func TestKeys(t *testing.T) {
	id := "landscapes/dunes.jpg"
	if got := OriginalKey(id); got != "landscapes/dunes.jpg" {
		t.Errorf("OriginalKey = %q", got)
	}
	if got := ThumbnailKey(id); got != "thumbnails/landscapes/dunes.jpg" {
		t.Errorf("ThumbnailKey = %q", got)
	}
}

func TestAlbumOf(t *testing.T) {
	tests := []struct {
		rel  string
		want string
	}{
		{"pic.jpg", ""},
		{"landscapes/dunes.jpg", "landscapes"},
		{"trips/2024/utah/arch.jpg", "trips"},
	}

	for _, tt := range tests {
		if got := AlbumOf(tt.rel); got != tt.want {
			t.Errorf("AlbumOf(%q) = %q, want %q", tt.rel, got, tt.want)
		}
	}
}

func TestContentTypeForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a.jpg", "image/jpeg"},
		{"a.JPEG", "image/jpeg"},
		{"a.png", "image/png"},
		{"a.gif", "image/gif"},
		{"a.webp", "image/webp"},
		{"a.txt", "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := ContentTypeForPath(tt.path); got != tt.want {
			t.Errorf("ContentTypeForPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestDocIDRoundTrip(t *testing.T) {
	id := "trips/2024/arch.jpg"
	docID := docIDForPhoto(id)
	if docID != "trips|2024|arch.jpg" {
		t.Errorf("docIDForPhoto = %q", docID)
	}
	if got := photoIDForDoc(docID); got != id {
		t.Errorf("photoIDForDoc(%q) = %q, want %q", docID, got, id)
	}
}
