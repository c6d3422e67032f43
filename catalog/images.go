package catalog

import "strings"

// Image sizes understood by the CDN.
const (
	SizePoster   = "w342"
	SizeProfile  = "w185"
	SizeCard     = "w500"
	SizeBackdrop = "w780"
	SizeOriginal = "original"
)

// ImageURL suffixes an image path onto the CDN base for the given size. An
// empty path yields an empty URL.
func ImageURL(base, size, path string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = SizeOriginal
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(base, "/") + "/" + size + path
}
