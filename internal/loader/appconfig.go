package loader

import (
	"log/slog"

	"github.com/joseph-ayodele/docreview/constants"
	"github.com/joseph-ayodele/docreview/internal/common"
	"github.com/joseph-ayodele/docreview/internal/ocr"
)

// ConfigFrom maps the application config onto loader settings.
func ConfigFrom(c *common.Config) Config {
	return Config{
		OCR: ocr.Config{
			Engine:        ocr.Engine(c.OCR.Engine),
			Pdftoppm:      c.OCR.Pdftoppm,
			Tesseract:     c.OCR.Tesseract,
			TesseractLang: c.OCR.Lang,
			TessdataDir:   c.OCR.TessdataDir,
			PSM:           c.OCR.PSM,
			HTTPEndpoint:  c.OCR.HTTPEndpoint,
			HTTPToken:     c.OCR.HTTPToken,
			HTTPRate:      c.OCR.HTTPRate,
			WorkingDPI:    c.OCR.WorkingDPI,
			DensityDPI:    c.OCR.DensityDPI,
			Concurrency:   c.OCR.Concurrency,
			Thresholds: ocr.Thresholds{
				MinCharsPerPage:  c.OCR.MinCharsPerPage,
				SingleCharRatio:  c.OCR.SingleCharRatio,
				PlaceholderRatio: c.OCR.PlaceholderRatio,
			},
		},
		DarkLumaThreshold: c.OCR.DarkLumaThreshold,
		Defaults: Options{
			OCRMode:  constants.OCRMode(c.Review.OCRMode),
			Strategy: constants.Strategy(c.Review.Strategy),
			Budget:   Budget(c.Review.Budget),
		},
	}
}

// NewFromConfig builds a loader with the configured recognizer. A missing
// OCR backend is logged and left to surface per document, so native-text
// reviews keep working.
func NewFromConfig(c *common.Config, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := ConfigFrom(c)
	var opts []Option
	rec, err := ocr.NewRecognizer(cfg.OCR, nil, logger)
	if err != nil {
		logger.Warn("loader.ocr.unavailable", "engine", c.OCR.Engine, "error", err)
	} else {
		opts = append(opts, WithRecognizer(rec))
	}
	if c.Review.DetectLanguage {
		opts = append(opts, WithLanguageDetector(NewLinguaDetector()))
	}
	return New(cfg, logger, opts...)
}
