package ingest

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/joseph-ayodele/docreview/constants"
	"github.com/joseph-ayodele/docreview/internal/loader"
	"github.com/joseph-ayodele/docreview/internal/pipeline"
	"github.com/joseph-ayodele/docreview/internal/repository"
)

// Submitter queues a review.
type Submitter interface {
	Submit(ctx context.Context, req pipeline.Request) (*repository.ReviewRun, error)
}

// RequestTemplate carries the per-side settings applied to every pair.
type RequestTemplate struct {
	TypeA   constants.DocType
	TypeB   constants.DocType
	Options loader.Options
}

// Request builds the review request for p.
func (t RequestTemplate) Request(p Pair) pipeline.Request {
	return pipeline.Request{
		A: &pipeline.Input{Path: p.A, Name: filepath.Base(p.A), DocType: t.TypeA, Options: t.Options},
		B: &pipeline.Input{Path: p.B, Name: filepath.Base(p.B), DocType: t.TypeB, Options: t.Options},
	}
}

// Feed pairs paths from events and submits each complete pair until events
// closes or ctx is done. It returns the number of submitted reviews.
func Feed(ctx context.Context, events <-chan string, sub Submitter, tmpl RequestTemplate, logger *slog.Logger) int {
	if logger == nil {
		logger = slog.Default()
	}
	pairer := NewPairer()
	submitted := 0
	for {
		select {
		case <-ctx.Done():
			return submitted
		case path, ok := <-events:
			if !ok {
				return submitted
			}
			pair, ok := pairer.Add(path)
			if !ok {
				logger.Debug("watch.pair.pending", "path", path)
				continue
			}
			run, err := sub.Submit(ctx, tmpl.Request(pair))
			if err != nil {
				logger.Error("watch.submit.failed", "pair", filepath.Base(pair.Name), "error", err)
				continue
			}
			submitted++
			logger.Info("watch.submit.ok", "pair", filepath.Base(pair.Name), "run_id", run.ID)
		}
	}
}
