package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/docreview/constants"
)

// AllowedExt checks if a file extension is one the loader accepts.
func AllowedExt(ext string) bool {
	ext = constants.NormalizeExt(ext)
	_, ok := constants.AllowedExtensions[ext]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}

// SplitPairName parses "<name>.a.<ext>" or "<name>.b.<ext>".
func SplitPairName(path string) (name, side string, ok bool) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == "" || !AllowedExt(ext) {
		return "", "", false
	}
	stem := strings.TrimSuffix(base, ext)
	tag := strings.ToLower(filepath.Ext(stem))
	if tag != ".a" && tag != ".b" {
		return "", "", false
	}
	name = strings.TrimSuffix(stem, filepath.Ext(stem))
	if name == "" {
		return "", "", false
	}
	return filepath.Join(filepath.Dir(path), name), tag[1:], true
}
