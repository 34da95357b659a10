package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/docreview/internal/segment"
)

// Executor renders selected pages and recognizes them. Results come back in
// ascending page order whatever order the pages finish in.
type Executor struct {
	dpi         int
	concurrency int
	logger      *slog.Logger
}

func NewExecutor(cfg Config, logger *slog.Logger) *Executor {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{dpi: cfg.WorkingDPI, concurrency: cfg.Concurrency, logger: logger}
}

// Run OCRs pages (0-based) and returns one segment per page with locator
// p<index+1>. Any failure discards every page of the call.
func (e *Executor) Run(ctx context.Context, r Renderer, rec Recognizer, pages []int) ([]segment.Segment, error) {
	start := time.Now()
	pages = slices.Clone(pages)
	slices.Sort(pages)
	pages = slices.Compact(pages)

	out := make([]segment.Segment, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, p := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pageStart := time.Now()
			img, err := r.Render(gctx, p, e.dpi)
			if err != nil {
				return fmt.Errorf("render page %d: %w", p+1, err)
			}
			text, err := rec.Recognize(gctx, img)
			if err != nil {
				return fmt.Errorf("recognize page %d: %w", p+1, err)
			}
			out[i] = segment.Segment{Source: segment.PageLocator(p + 1), Text: segment.Normalize(text)}
			e.logger.Debug("ocr.page.ok",
				"page", p+1,
				"image_bytes", len(img),
				"text_len", len(out[i].Text),
				"elapsed_ms", time.Since(pageStart).Milliseconds(),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.logger.Warn("ocr.run.failed", "pages", len(pages), "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}
	e.logger.Info("ocr.run.ok", "pages", len(pages), "dpi", e.dpi,
		"elapsed_ms", time.Since(start).Milliseconds())
	return out, nil
}
