package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

// Recognizer turns an image into text.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// RecognizerFunc adapts a function to Recognizer.
type RecognizerFunc func(ctx context.Context, image []byte) (string, error)

func (f RecognizerFunc) Recognize(ctx context.Context, image []byte) (string, error) {
	return f(ctx, image)
}

// CLIRecognizer shells out to the tesseract binary.
type CLIRecognizer struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewCLIRecognizer(cfg Config, runner Runner, logger *slog.Logger) *CLIRecognizer {
	cfg = cfg.withDefaults()
	if runner == nil {
		runner = toolRunner(cfg)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIRecognizer{cfg: cfg, runner: runner, logger: logger}
}

func (c *CLIRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	f, err := os.CreateTemp("", "dr-ocr-*.png")
	if err != nil {
		return "", err
	}
	path := f.Name()
	defer os.Remove(path)
	if _, err := f.Write(image); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write temp image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	// tesseract <file> stdout -l <lang>
	args := []string{path, "stdout", "-l", c.cfg.TesseractLang}
	if c.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(c.cfg.PSM))
	}
	if c.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", c.cfg.TessdataDir)
	}
	out, errb, err := c.runner.Run(ctx, c.cfg.Tesseract, c.logger, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, truncate(string(errb), 512))
	}
	return string(out), nil
}

// toolRunner pins tesseract to one thread when pages are recognized in
// parallel.
func toolRunner(cfg Config) ExecRunner {
	if cfg.Concurrency > 1 {
		return ExecRunner{Env: []string{"OMP_THREAD_LIMIT=1"}}
	}
	return ExecRunner{}
}
