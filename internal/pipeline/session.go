// Package pipeline runs a two-document review: load, score, extract,
// compare, synthesize and mask.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/docreview/internal/common"
	"github.com/joseph-ayodele/docreview/internal/compare"
	"github.com/joseph-ayodele/docreview/internal/llm"
	"github.com/joseph-ayodele/docreview/internal/mask"
	"github.com/joseph-ayodele/docreview/internal/review"
)

// Request names up to two documents. A nil side is not supplied.
type Request struct {
	A *Input `json:"a,omitempty"`
	B *Input `json:"b,omitempty"`
}

type Option func(*Session)

// WithProse enables the optional prose step. It only sees masked input.
func WithProse(p llm.ProseSynthesizer) Option {
	return func(s *Session) { s.prose = p }
}

// Session coordinates the stages. It holds no per-review state, so one
// Session can serve concurrent reviews.
type Session struct {
	load   *LoadStage
	prose  llm.ProseSynthesizer
	logger *slog.Logger
}

func NewSession(l DocumentLoader, logger *slog.Logger, opts ...Option) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{load: NewLoadStage(l, logger), logger: logger}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Review runs the full pipeline. One side failing to load is reported as a
// missing document; it is an error only when nothing could be loaded.
func (s *Session) Review(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	res := &Result{}

	var loadErrs []error
	for _, side := range []struct {
		tag string
		in  *Input
		out **DocumentResult
	}{{"a", req.A, &res.A}, {"b", req.B, &res.B}} {
		if side.in == nil {
			continue
		}
		doc, err := s.load.Run(ctx, side.tag, side.in)
		if err != nil {
			loadErrs = append(loadErrs, err)
			if res.LoadErrors == nil {
				res.LoadErrors = map[string]string{}
			}
			res.LoadErrors[side.tag] = err.Error()
			continue
		}
		*side.out = Analyze(doc, side.in.DocType)
	}
	if res.A == nil && res.B == nil && len(loadErrs) > 0 {
		s.logger.Error("review.session.failed", "errors", len(loadErrs))
		return nil, errors.Join(loadErrs...)
	}

	if res.A != nil && res.B != nil {
		res.Comparisons = compare.Compare(res.A.Fields, res.B.Fields)
	} else {
		res.Comparisons = []compare.Result{}
	}
	res.Opinion = review.Synthesize(review.Input{A: res.A.side(), B: res.B.side(), Comparisons: res.Comparisons})
	res.replacements = mask.Build(res.A.fieldMap(), res.B.fieldMap())

	if s.prose != nil {
		s.synthesizeProse(ctx, res)
	}

	s.logger.With(common.LogArgs(ctx)...).Info("review.session.ok",
		"docs", len(res.Sides()),
		"comparisons", len(res.Comparisons),
		"items", len(res.Opinion.Items),
		"high", res.HighCount(),
		"mask_entries", res.replacements.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// synthesizeProse never touches the computed opinion; failures are data.
func (s *Session) synthesizeProse(ctx context.Context, res *Result) {
	masked := res.Masked()
	b, err := json.Marshal(masked.Opinion)
	if err != nil {
		res.ProseError = err.Error()
		return
	}
	p, err := s.prose.SynthesizeProse(ctx, b)
	if err != nil {
		s.logger.Warn("review.prose.failed", "error", err)
		res.ProseError = err.Error()
		return
	}
	res.Prose = &p
}
