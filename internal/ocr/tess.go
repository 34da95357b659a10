//go:build ocr

package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TessRecognizer runs Tesseract in-process through gosseract.
type TessRecognizer struct {
	cfg Config
}

func NewTessRecognizer(cfg Config) (Recognizer, error) {
	return &TessRecognizer{cfg: cfg.withDefaults()}, nil
}

func (t *TessRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	client := gosseract.NewClient()
	defer client.Close()

	if t.cfg.TessdataDir != "" {
		if err := client.SetTessdataPrefix(t.cfg.TessdataDir); err != nil {
			return "", fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(strings.Split(t.cfg.TesseractLang, "+")...); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if t.cfg.PSM > 0 {
		if err := client.SetPageSegMode(gosseract.PageSegMode(t.cfg.PSM)); err != nil {
			return "", fmt.Errorf("set page seg mode: %w", err)
		}
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("gosseract: %w", err)
	}
	return text, nil
}
