package ocr

import (
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/joseph-ayodele/docreview/internal/common"
)

// LookPath is swapped in tests.
var LookPath = exec.LookPath

// NewRecognizer builds the configured recognizer, failing with
// ErrCapabilityUnavailable when its backend is missing.
func NewRecognizer(cfg Config, runner Runner, logger *slog.Logger) (Recognizer, error) {
	cfg = cfg.withDefaults()
	switch cfg.Engine {
	case EngineCLI:
		if _, err := LookPath(cfg.Tesseract); err != nil {
			return nil, unavailable(fmt.Sprintf("tesseract binary %q not found", cfg.Tesseract), err)
		}
		return NewCLIRecognizer(cfg, runner, logger), nil
	case EngineGosseract:
		return NewTessRecognizer(cfg)
	case EngineHTTP:
		if cfg.HTTPEndpoint == "" {
			return nil, unavailable("OCR_HTTP_ENDPOINT is not set", nil)
		}
		return NewHTTPRecognizer(cfg, logger), nil
	}
	return nil, common.NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown ocr engine %q", cfg.Engine), common.ErrInvalidInput)
}

// CheckPDFRenderer verifies the pdftoppm binary is reachable.
func CheckPDFRenderer(cfg Config) error {
	cfg = cfg.withDefaults()
	if _, err := LookPath(cfg.Pdftoppm); err != nil {
		return unavailable(fmt.Sprintf("pdftoppm binary %q not found", cfg.Pdftoppm), err)
	}
	return nil
}

func unavailable(msg string, cause error) error {
	if cause != nil {
		return common.NewAppError("CONFIG_ERROR", msg, fmt.Errorf("%w: %v", common.ErrCapabilityUnavailable, cause))
	}
	return common.NewAppError("CONFIG_ERROR", msg, common.ErrCapabilityUnavailable)
}
