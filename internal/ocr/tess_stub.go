//go:build !ocr

package ocr

import (
	"github.com/joseph-ayodele/docreview/internal/common"
)

// NewTessRecognizer reports that in-process OCR was not compiled in.
// Rebuild with -tags ocr to enable it.
func NewTessRecognizer(Config) (Recognizer, error) {
	return nil, common.NewAppError("CONFIG_ERROR", "gosseract engine not compiled in; rebuild with -tags ocr", common.ErrCapabilityUnavailable)
}
