package constants

import "strings"

// DocKind classifies a file by how its native text is laid out.
type DocKind string

const (
	KindPaged DocKind = "paged" // raster-renderable, one segment per page
	KindImage DocKind = "image" // single raster page, no native text
	KindFlow  DocKind = "flow"  // one segment per paragraph
	KindText  DocKind = "text"  // single unstructured segment
)

// Renderable reports whether pages of this kind can be rasterized for OCR.
func (k DocKind) Renderable() bool {
	return k == KindPaged || k == KindImage
}

var extKinds = map[string]DocKind{
	"pdf":  KindPaged,
	"png":  KindImage,
	"jpg":  KindImage,
	"jpeg": KindImage,
	"gif":  KindImage,
	"tif":  KindImage,
	"tiff": KindImage,
	"bmp":  KindImage,
	"docx": KindFlow,
	"html": KindFlow,
	"htm":  KindFlow,
	"txt":  KindText,
	"md":   KindText,
	"text": KindText,
}

// AllowedExtensions holds the extensions the loader and the watcher accept.
var AllowedExtensions = func() map[string]struct{} {
	m := make(map[string]struct{}, len(extKinds))
	for ext := range extKinds {
		m[ext] = struct{}{}
	}
	return m
}()

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// KindForExt maps a file extension to its DocKind; ok is false for unknown extensions.
func KindForExt(ext string) (DocKind, bool) {
	k, ok := extKinds[NormalizeExt(ext)]
	return k, ok
}
