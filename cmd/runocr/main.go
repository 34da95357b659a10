package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/docreview/constants"
	"github.com/joseph-ayodele/docreview/internal/common"
	"github.com/joseph-ayodele/docreview/internal/loader"
)

// runocr loads one file and prints its merged segments and OCR flags.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	mode := flag.String("ocr", "", "OCR mode: off, auto or force")
	budget := flag.Int("budget", 0, "maximum pages to OCR, 0 or less for every page (default from config)")
	strategy := flag.String("strategy", "", "page selection: uniform, front_back or density")
	flag.Parse()

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "runocr [--ocr force] [--budget N] [--strategy density] <file>")
		os.Exit(2)
	}
	opts := loader.Options{
		OCRMode:  constants.OCRMode(*mode),
		Strategy: constants.Strategy(*strategy),
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "budget" {
			opts.Budget = loader.Budget(*budget)
		}
	})
	if err := common.ValidateReviewOptions(opts.OCRMode, opts.Strategy, ""); err != nil {
		logger.Error("invalid options", "error", err)
		os.Exit(2)
	}

	cfg, err := common.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	doc, err := loader.NewFromConfig(cfg, logger).Load(ctx, flag.Arg(0), opts)
	if err != nil {
		logger.Error("load failed", "path", flag.Arg(0), "error", err, "duration_ms", time.Since(start).Milliseconds())
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		logger.Error("encode", "error", err)
		os.Exit(1)
	}
	logger.Info("load OK",
		"kind", doc.Kind,
		"pages", doc.PageCount,
		"segments", len(doc.Segments),
		"ocr_used", doc.OCRUsed,
		"ocr_pages", doc.OCRPages,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
