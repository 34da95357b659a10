package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docreview/constants"
	"github.com/joseph-ayodele/docreview/internal/common"
	"github.com/joseph-ayodele/docreview/internal/ocr"
	"github.com/joseph-ayodele/docreview/internal/segment"
)

type pageRenderer struct {
	mu    sync.Mutex
	calls []int
}

func (p *pageRenderer) Render(_ context.Context, pageIndex, dpi int) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, pageIndex)
	return []byte(fmt.Sprintf("%d", pageIndex)), nil
}

func staticRenderer(r ocr.Renderer) RendererFactory {
	return func(string, constants.DocKind) (ocr.Renderer, error) { return r, nil }
}

var pageRecognizer = ocr.RecognizerFunc(func(_ context.Context, img []byte) (string, error) {
	return "OCR page index " + string(img), nil
})

type fixedLanguage string

func (f fixedLanguage) Detect(string) string { return string(f) }

func newTestLoader(opts ...Option) *Loader {
	return New(Config{}, slog.New(slog.DiscardHandler), opts...)
}

func TestLoadPlainText(t *testing.T) {
	path := writeFile(t, "a.txt", "회사명: 가나다\r\n투자금액: 5억원\n")
	l := newTestLoader(WithLanguageDetector(fixedLanguage("ko")))

	doc, err := l.Load(context.Background(), path, Options{OCRMode: constants.OCRForce})
	require.NoError(t, err)
	require.Len(t, doc.Segments, 1)
	assert.Equal(t, segment.TextLocator(), doc.Segments[0].Source)
	assert.Equal(t, "회사명: 가나다\n투자금액: 5억원", doc.Text)
	assert.Equal(t, constants.KindText, doc.Kind)
	assert.False(t, doc.OCRUsed, "plain text is never OCR'd")
	assert.Empty(t, doc.OCRError)
	assert.Equal(t, "ko", doc.Language)
	assert.Empty(t, doc.OCRPages)
}

func TestLoadHTMLParagraphs(t *testing.T) {
	path := writeFile(t, "a.html", `<html><head><style>p{}</style></head><body>
<h1>투자계약서</h1>
<p>제1조 (목적)</p>
<ul><li><p>회사명: 가나다</p></li><li>투자금액: 5억원</li></ul>
<p>   </p>
</body></html>`)

	doc, err := newTestLoader().Load(context.Background(), path, Options{})
	require.NoError(t, err)
	var got []string
	for _, s := range doc.Segments {
		got = append(got, s.Source.String()+"="+s.Text)
	}
	assert.Equal(t, []string{
		"para1=투자계약서",
		"para2=제1조 (목적)",
		"para3=회사명: 가나다",
		"para4=투자금액: 5억원",
	}, got)
}

func TestLoadDOCXParagraphs(t *testing.T) {
	path := writeDOCX(t, "투자계약서", "", "회사명: 가나다")
	doc, err := newTestLoader().Load(context.Background(), path, Options{OCRMode: constants.OCRAuto})
	require.NoError(t, err)
	require.Len(t, doc.Segments, 2)
	assert.Equal(t, segment.ParaLocator(1), doc.Segments[0].Source)
	assert.Equal(t, segment.ParaLocator(2), doc.Segments[1].Source)
	assert.Equal(t, "회사명: 가나다", doc.Segments[1].Text)
	assert.False(t, doc.OCRUsed)
}

func TestLoadUnsupportedAndUnreadable(t *testing.T) {
	l := newTestLoader()
	_, err := l.Load(context.Background(), "contract.xyz", Options{})
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)

	doc, err := l.Load(context.Background(), filepath.Join(t.TempDir(), "missing.txt"), Options{})
	require.NoError(t, err)
	assert.Empty(t, doc.Segments)
	assert.Empty(t, doc.Text)
	assert.NotEmpty(t, doc.Warnings)

	_, err = l.Load(context.Background(), "a.txt", Options{OCRMode: "sometimes"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestLoadCapabilityUnavailable(t *testing.T) {
	img := writeImage(t)
	l := newTestLoader()

	_, err := l.Load(context.Background(), img, Options{OCRMode: constants.OCRAuto})
	assert.ErrorIs(t, err, common.ErrCapabilityUnavailable)

	doc, err := l.Load(context.Background(), img, Options{OCRMode: constants.OCROff})
	require.NoError(t, err)
	assert.Empty(t, doc.Segments)
	assert.Equal(t, 1, doc.PageCount)

	failing := func(string, constants.DocKind) (ocr.Renderer, error) {
		return nil, common.NewAppError("CONFIG_ERROR", "pdftoppm missing", common.ErrCapabilityUnavailable)
	}
	l = newTestLoader(WithRecognizer(pageRecognizer), WithRendererFactory(failing))
	_, err = l.Load(context.Background(), writePDF(t, "Hello"), Options{OCRMode: constants.OCRForce})
	assert.ErrorIs(t, err, common.ErrCapabilityUnavailable)
}

func TestLoadImageWithOCR(t *testing.T) {
	l := newTestLoader(WithRecognizer(pageRecognizer))
	doc, err := l.Load(context.Background(), writeImage(t), Options{OCRMode: constants.OCRAuto})
	require.NoError(t, err)
	assert.True(t, doc.OCRUsed)
	assert.Equal(t, ocr.ReasonEmpty, doc.OCRReason)
	assert.Equal(t, []int{0}, doc.OCRPages)
	require.Len(t, doc.Segments, 1)
	assert.Equal(t, segment.PageLocator(1), doc.Segments[0].Source)
}

func TestLoadPDFNative(t *testing.T) {
	path := writePDF(t, "Term Sheet", "", "Governing law Korea")
	doc, err := newTestLoader().Load(context.Background(), path, Options{OCRMode: constants.OCROff})
	require.NoError(t, err)
	assert.Equal(t, 3, doc.PageCount)
	require.Len(t, doc.Segments, 2, "empty page skipped")
	assert.Equal(t, segment.PageLocator(1), doc.Segments[0].Source)
	assert.Contains(t, doc.Segments[0].Text, "Term Sheet")
	assert.Equal(t, segment.PageLocator(3), doc.Segments[1].Source)
}

func TestLoadPDFForcedBudget(t *testing.T) {
	r := &pageRenderer{}
	l := newTestLoader(WithRecognizer(pageRecognizer), WithRendererFactory(staticRenderer(r)))
	path := writePDF(t, "native one", "native two", "native three")

	doc, err := l.Load(context.Background(), path, Options{
		OCRMode:  constants.OCRForce,
		Budget:   Budget(2),
		Strategy: constants.StrategyFrontBack,
	})
	require.NoError(t, err)
	assert.True(t, doc.OCRUsed)
	assert.Equal(t, "forced", doc.OCRReason)
	assert.Equal(t, []int{0, 1}, doc.OCRPages)
	assert.Equal(t, []int{0, 1}, r.calls)
	require.Len(t, doc.Segments, 3)
	assert.Equal(t, "OCR page index 0", doc.Segments[0].Text)
	assert.Equal(t, "OCR page index 1", doc.Segments[1].Text)
	assert.Contains(t, doc.Segments[2].Text, "native three")
}

func TestLoadPDFBudgetAllPages(t *testing.T) {
	for _, budget := range []int{0, -1} {
		r := &pageRenderer{}
		l := newTestLoader(WithRecognizer(pageRecognizer), WithRendererFactory(staticRenderer(r)))
		path := writePDF(t, "native one", "native two", "native three")

		doc, err := l.Load(context.Background(), path, Options{
			OCRMode:  constants.OCRForce,
			Budget:   Budget(budget),
			Strategy: constants.StrategyUniform,
		})
		require.NoError(t, err, "budget %d", budget)
		assert.Equal(t, []int{0, 1, 2}, doc.OCRPages, "budget %d", budget)
		assert.Equal(t, []int{0, 1, 2}, r.calls, "budget %d", budget)
	}
}

func TestLoadPDFBudgetDefault(t *testing.T) {
	r := &pageRenderer{}
	cfg := Config{Defaults: Options{Budget: Budget(1)}}
	l := New(cfg, slog.New(slog.DiscardHandler), WithRecognizer(pageRecognizer), WithRendererFactory(staticRenderer(r)))
	path := writePDF(t, "native one", "native two", "native three")

	doc, err := l.Load(context.Background(), path, Options{OCRMode: constants.OCRForce, Strategy: constants.StrategyUniform})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, doc.OCRPages)

	r.calls = nil
	doc, err = l.Load(context.Background(), path, Options{OCRMode: constants.OCRForce, Strategy: constants.StrategyUniform, Budget: Budget(0)})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, doc.OCRPages, "explicit zero overrides the default")
}

func TestLoadPDFOCRFallback(t *testing.T) {
	failing := ocr.RecognizerFunc(func(context.Context, []byte) (string, error) {
		return "", errors.New("ocr service unavailable")
	})
	l := newTestLoader(WithRecognizer(failing), WithRendererFactory(staticRenderer(&pageRenderer{})))
	path := writePDF(t, "short page", "another short page")

	doc, err := l.Load(context.Background(), path, Options{OCRMode: constants.OCRAuto})
	require.NoError(t, err)
	assert.False(t, doc.OCRUsed)
	assert.Contains(t, doc.OCRError, "ocr service unavailable")
	assert.Equal(t, ocr.ReasonLowDensity, doc.OCRReason)
	assert.Empty(t, doc.OCRPages)
	require.Len(t, doc.Segments, 2, "native segments kept")
	assert.Contains(t, doc.Segments[0].Text, "short page")
}

func TestLoadPDFDensitySelectionFailure(t *testing.T) {
	l := newTestLoader(WithRecognizer(pageRecognizer), WithRendererFactory(staticRenderer(&pageRenderer{})))
	path := writePDF(t, "a", "b", "c")

	doc, err := l.Load(context.Background(), path, Options{
		OCRMode:  constants.OCRForce,
		Budget:   Budget(1),
		Strategy: constants.StrategyDensity,
	})
	require.NoError(t, err)
	assert.False(t, doc.OCRUsed)
	assert.Contains(t, doc.OCRError, "select pages", "fake renderer output is not a PNG")
}

func TestLoadText(t *testing.T) {
	doc := newTestLoader().LoadText("inline", "  투자금액: 5억원  ")
	require.Len(t, doc.Segments, 1)
	assert.Equal(t, "투자금액: 5억원", doc.Text)
	assert.Empty(t, newTestLoader().LoadText("empty", " ").Segments)
}
