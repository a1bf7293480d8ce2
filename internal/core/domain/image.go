package domain

import "strings"

// MaxUploadSize is the largest accepted image file (5 MiB).
const MaxUploadSize int64 = 5 << 20

// Image is a stored image document.
type Image struct {
	ID       string
	Name     string
	Src      string
	AuthorID string
}

// ImageView is the API projection of an Image with its author resolved.
type ImageView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Src    string `json:"src"`
	Author User   `json:"author"`
}

// ImageFormat is an accepted upload encoding.
type ImageFormat string

const (
	FormatPNG  ImageFormat = "png"
	FormatJPEG ImageFormat = "jpg"
)

// formatsByContentType is the upload allow-list.
var formatsByContentType = map[string]ImageFormat{
	"image/png":  FormatPNG,
	"image/jpeg": FormatJPEG,
	"image/jpg":  FormatJPEG,
}

// FormatForContentType resolves a declared MIME type to a supported format.
// Parameters such as "; charset=" are ignored.
func FormatForContentType(contentType string) (ImageFormat, bool) {
	mt := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	f, ok := formatsByContentType[mt]
	return f, ok
}

// Extension returns the file extension, without the dot.
func (f ImageFormat) Extension() string {
	return string(f)
}

// ContentType returns the canonical MIME type for the format.
func (f ImageFormat) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/jpeg"
}
