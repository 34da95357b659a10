package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/docreview/constants"
	"github.com/joseph-ayodele/docreview/internal/loader"
)

// Input is one side of a review: a file path, or inline text when Path is
// empty.
type Input struct {
	Path    string            `json:"path,omitempty"`
	Name    string            `json:"name,omitempty"`
	Text    string            `json:"text,omitempty"`
	DocType constants.DocType `json:"doc_type,omitempty"`
	Options loader.Options    `json:"options"`
}

// DocumentLoader is what the session needs from the loader.
type DocumentLoader interface {
	Load(ctx context.Context, path string, opts loader.Options) (*loader.Document, error)
	LoadText(name, text string) *loader.Document
}

type LoadStage struct {
	Loader DocumentLoader
	Logger *slog.Logger
}

func NewLoadStage(l DocumentLoader, logger *slog.Logger) *LoadStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoadStage{Loader: l, Logger: logger}
}

// Run loads in. A returned error means the side is treated as missing.
func (s *LoadStage) Run(ctx context.Context, side string, in *Input) (*loader.Document, error) {
	start := time.Now()
	if in.Path == "" {
		name := in.Name
		if name == "" {
			name = "document_" + side
		}
		doc := s.Loader.LoadText(name, in.Text)
		s.Logger.Debug("review.load.inline", "side", side, "segments", len(doc.Segments))
		return doc, nil
	}
	doc, err := s.Loader.Load(ctx, in.Path, in.Options)
	if err != nil {
		s.Logger.Warn("review.load.failed", "side", side, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("load %s: %w", side, err)
	}
	if in.Name != "" {
		doc.Name = in.Name
	}
	return doc, nil
}
