// Package loader turns a file into ordered text segments, running OCR over
// a budgeted page set when the native text is missing or unreliable.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/docreview/constants"
	"github.com/joseph-ayodele/docreview/internal/common"
	"github.com/joseph-ayodele/docreview/internal/ocr"
	"github.com/joseph-ayodele/docreview/internal/pages"
	"github.com/joseph-ayodele/docreview/internal/segment"
)

// Options are the per-document OCR controls. A nil Budget takes the
// configured default; a budget of zero or less OCRs every page.
type Options struct {
	OCRMode  constants.OCRMode  `json:"ocr_mode,omitempty"`
	Budget   *int               `json:"budget,omitempty"`
	Strategy constants.Strategy `json:"strategy,omitempty"`
}

// Budget returns n as an explicit page budget.
func Budget(n int) *int { return &n }

func (o Options) budget() int {
	if o.Budget == nil {
		return 0
	}
	return *o.Budget
}

type Config struct {
	OCR               ocr.Config
	DarkLumaThreshold int
	Defaults          Options
}

// Document is a loaded file. OCRPages holds 0-based page indexes.
type Document struct {
	Name      string            `json:"name"`
	Kind      constants.DocKind `json:"kind"`
	Segments  []segment.Segment `json:"segments"`
	Text      string            `json:"-"`
	PageCount int               `json:"page_count"`
	OCRUsed   bool              `json:"ocr_used"`
	OCRError  string            `json:"ocr_error,omitempty"`
	OCRReason string            `json:"ocr_reason,omitempty"`
	OCRPages  []int             `json:"ocr_pages_used"`
	Language  string            `json:"language,omitempty"`
	Warnings  []string          `json:"warnings,omitempty"`
}

// RendererFactory opens a page renderer for a raster-renderable file.
type RendererFactory func(path string, kind constants.DocKind) (ocr.Renderer, error)

type Option func(*Loader)

// WithRecognizer installs the OCR capability. Without one, any OCR request
// on a renderable document fails with ErrCapabilityUnavailable.
func WithRecognizer(rec ocr.Recognizer) Option {
	return func(l *Loader) { l.recognizer = rec }
}

func WithRendererFactory(f RendererFactory) Option {
	return func(l *Loader) {
		if f != nil {
			l.renderers = f
		}
	}
}

func WithLanguageDetector(d LanguageDetector) Option {
	return func(l *Loader) { l.language = d }
}

type Loader struct {
	cfg        Config
	recognizer ocr.Recognizer
	renderers  RendererFactory
	language   LanguageDetector
	selector   *pages.Selector
	executor   *ocr.Executor
	logger     *slog.Logger
}

func New(cfg Config, logger *slog.Logger, opts ...Option) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DarkLumaThreshold <= 0 {
		cfg.DarkLumaThreshold = constants.DefaultDarkLumaThreshold
	}
	if cfg.OCR.DensityDPI <= 0 {
		cfg.OCR.DensityDPI = constants.DefaultDensityDPI
	}
	if cfg.Defaults.OCRMode == "" {
		cfg.Defaults.OCRMode = constants.OCRAuto
	}
	if cfg.Defaults.Strategy == "" {
		cfg.Defaults.Strategy = constants.StrategyFrontBack
	}
	l := &Loader{
		cfg:      cfg,
		selector: pages.NewSelector(logger),
		executor: ocr.NewExecutor(cfg.OCR, logger),
		logger:   logger,
	}
	l.renderers = l.defaultRenderer
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *Loader) defaultRenderer(path string, kind constants.DocKind) (ocr.Renderer, error) {
	if kind == constants.KindImage {
		return ocr.NewImageRenderer(path), nil
	}
	if err := ocr.CheckPDFRenderer(l.cfg.OCR); err != nil {
		return nil, err
	}
	return ocr.NewPDFRenderer(path, l.cfg.OCR, nil, l.logger), nil
}

func (l *Loader) withDefaults(opts Options) Options {
	if opts.OCRMode == "" {
		opts.OCRMode = l.cfg.Defaults.OCRMode
	}
	if opts.Strategy == "" {
		opts.Strategy = l.cfg.Defaults.Strategy
	}
	if opts.Budget == nil {
		opts.Budget = l.cfg.Defaults.Budget
	}
	return opts
}

// Load reads path natively and, depending on opts.OCRMode and the necessity
// heuristics, OCRs a selected page set over it. Unreadable files yield an
// empty document. Errors are reserved for bad options, unknown formats and
// a missing OCR capability.
func (l *Loader) Load(ctx context.Context, path string, opts Options) (*Document, error) {
	start := time.Now()
	opts = l.withDefaults(opts)
	if err := common.ValidateReviewOptions(opts.OCRMode, opts.Strategy, ""); err != nil {
		return nil, err
	}
	kind, ok := constants.KindForExt(filepath.Ext(path))
	if !ok {
		return nil, common.NewAppError("UNSUPPORTED_FORMAT", filepath.Base(path), common.ErrUnsupportedFormat)
	}
	l.logger.Info("loader.load.start", "name", filepath.Base(path), "kind", kind, "ocr_mode", opts.OCRMode)

	var renderer ocr.Renderer
	if opts.OCRMode != constants.OCROff && kind.Renderable() {
		if l.recognizer == nil {
			return nil, common.NewAppError("CONFIG_ERROR", "no OCR recognizer configured", common.ErrCapabilityUnavailable)
		}
		r, err := l.renderers(path, kind)
		if err != nil {
			return nil, err
		}
		renderer = r
	}

	doc := &Document{Name: filepath.Base(path), Kind: kind, OCRPages: []int{}}
	native, err := extractNative(path, kind)
	if err != nil {
		l.logger.Warn("loader.native.unreadable", "name", doc.Name, "error", err)
		doc.Warnings = append(doc.Warnings, err.Error())
	}
	doc.Warnings = append(doc.Warnings, native.warnings...)
	doc.PageCount = native.pageCount
	doc.Segments = native.segments
	nativeText := segment.Join(native.segments)

	if renderer != nil {
		l.runOCR(ctx, doc, nativeText, renderer, opts)
	}
	l.finish(doc)

	l.logger.Info("loader.load.ok",
		"name", doc.Name,
		"segments", len(doc.Segments),
		"pages", doc.PageCount,
		"ocr_used", doc.OCRUsed,
		"ocr_failed", doc.OCRError != "",
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return doc, nil
}

// LoadText wraps in-memory plain text as a single-segment document.
func (l *Loader) LoadText(name, text string) *Document {
	doc := &Document{Name: name, Kind: constants.KindText, PageCount: 1, OCRPages: []int{}, Segments: textSegments(text)}
	l.finish(doc)
	return doc
}

func (l *Loader) finish(doc *Document) {
	doc.Text = segment.Join(doc.Segments)
	if l.language != nil && doc.Text != "" {
		doc.Language = l.language.Detect(doc.Text)
	}
}

// runOCR decides, selects, recognizes and merges. Failures land in
// doc.OCRError and leave the native segments untouched.
func (l *Loader) runOCR(ctx context.Context, doc *Document, nativeText string, renderer ocr.Renderer, opts Options) {
	switch opts.OCRMode {
	case constants.OCRForce:
		doc.OCRReason = "forced"
	case constants.OCRAuto:
		d := ocr.DetectNecessity(nativeText, doc.PageCount, l.cfg.OCR.Thresholds)
		if !d.Required {
			return
		}
		doc.OCRReason = d.Reason
	default:
		return
	}

	density := pages.RendererDensity(renderer, l.cfg.OCR.DensityDPI, l.cfg.DarkLumaThreshold)
	selected, err := l.selector.Select(ctx, doc.PageCount, opts.budget(), opts.Strategy, density)
	if err != nil {
		l.fail(doc, fmt.Errorf("select pages: %w", err))
		return
	}
	if len(selected) == 0 {
		return
	}
	ocrSegs, err := l.executor.Run(ctx, renderer, l.recognizer, selected)
	if err != nil {
		l.fail(doc, err)
		return
	}
	doc.Segments = segment.Merge(doc.Segments, ocrSegs)
	doc.OCRUsed = true
	doc.OCRPages = selected
}

func (l *Loader) fail(doc *Document, err error) {
	l.logger.Warn("loader.ocr.failed", "name", doc.Name, "error", err)
	doc.OCRError = err.Error()
}
