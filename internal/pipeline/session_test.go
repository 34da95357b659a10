package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docreview/constants"
	"github.com/joseph-ayodele/docreview/internal/common"
	"github.com/joseph-ayodele/docreview/internal/fields"
	"github.com/joseph-ayodele/docreview/internal/llm"
	"github.com/joseph-ayodele/docreview/internal/loader"
	"github.com/joseph-ayodele/docreview/internal/ocr"
)

var quiet = slog.New(slog.DiscardHandler)

func newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	return NewSession(loader.New(loader.Config{}, quiet), quiet, opts...)
}

func inline(text string) *Input { return &Input{Text: text} }

func writePNG(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))
	path := filepath.Join(t.TempDir(), "scan.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

type fakeProse struct {
	got []byte
	err error
}

func (f *fakeProse) SynthesizeProse(_ context.Context, b []byte) (llm.Prose, error) {
	f.got = b
	if f.err != nil {
		return llm.Prose{}, f.err
	}
	return llm.Prose{Text: "검토 의견입니다."}, nil
}

func TestReviewAmountMismatch(t *testing.T) {
	res, err := newSession(t).Review(context.Background(), Request{A: inline("투자금액: 5억원"), B: inline("투자금액: 6억원")})
	require.NoError(t, err)

	assert.Equal(t, int64(500_000_000), res.A.Fields["investment_amount"].Normalized)
	assert.Equal(t, int64(600_000_000), res.B.Fields["investment_amount"].Normalized)

	require.Len(t, res.Comparisons, len(fields.Definitions))
	assert.Equal(t, "investment_amount", res.Comparisons[2].Field)
	assert.Equal(t, constants.StatusMismatch, res.Comparisons[2].Status)

	require.Len(t, res.Opinion.Items, 1)
	assert.Equal(t, constants.SeverityHigh, res.Opinion.Items[0].Severity)
	assert.Len(t, res.Opinion.Questions, 1)
	assert.Equal(t, 1, res.HighCount())
}

func TestReviewMissingCompany(t *testing.T) {
	res, err := newSession(t).Review(context.Background(), Request{A: inline("회사명: 가나다"), B: inline("투자 조건은 추후 협의")})
	require.NoError(t, err)
	require.Len(t, res.Comparisons, len(fields.Definitions))
	assert.Equal(t, "company_name", res.Comparisons[0].Field)
	assert.Equal(t, constants.StatusMissing, res.Comparisons[0].Status)
	for _, c := range res.Comparisons[1:] {
		assert.Equal(t, constants.StatusNotApplicable, c.Status)
	}
}

func TestReviewOCRFallback(t *testing.T) {
	failing := ocr.RecognizerFunc(func(context.Context, []byte) (string, error) {
		return "", errors.New("ocr backend down")
	})
	l := loader.New(loader.Config{}, quiet, loader.WithRecognizer(failing))
	s := NewSession(l, quiet)

	res, err := s.Review(context.Background(), Request{
		A: &Input{Path: writePNG(t), Options: loader.Options{OCRMode: constants.OCRAuto}},
		B: inline("참고 자료"),
	})
	require.NoError(t, err)
	assert.False(t, res.A.OCRUsed)
	assert.Contains(t, res.A.OCRError, "ocr backend down")
	assert.Empty(t, res.A.OCRPagesUsed)

	require.Len(t, res.Opinion.Items, 1)
	assert.Equal(t, constants.SeverityMedium, res.Opinion.Items[0].Severity)
	assert.Contains(t, res.Opinion.Items[0].Issue, "OCR 실패")
}

func TestReviewOneSideFails(t *testing.T) {
	// no recognizer configured: forced OCR on an image is a capability error
	res, err := newSession(t).Review(context.Background(), Request{
		A: &Input{Path: writePNG(t), Options: loader.Options{OCRMode: constants.OCRForce}},
		B: inline("투자금액: 5억원"),
	})
	require.NoError(t, err)
	assert.Nil(t, res.A)
	require.NotNil(t, res.B)
	assert.Contains(t, res.LoadErrors["a"], "capability unavailable")
	assert.Empty(t, res.Comparisons)
	require.Len(t, res.Opinion.Items, 1)
	assert.Equal(t, constants.SeverityInfo, res.Opinion.Items[0].Severity)
}

func TestReviewBothFail(t *testing.T) {
	bad := &Input{Path: filepath.Join(t.TempDir(), "x.xyz")}
	_, err := newSession(t).Review(context.Background(), Request{A: bad, B: bad})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnsupportedFormat))
}

func TestReviewNoDocuments(t *testing.T) {
	res, err := newSession(t).Review(context.Background(), Request{})
	require.NoError(t, err)
	require.Len(t, res.Opinion.Items, 1)
	assert.Equal(t, constants.SeverityInfo, res.Opinion.Items[0].Severity)
	assert.Empty(t, res.Comparisons)
}

func TestReviewFromFilesWithClauses(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "termsheet.txt")
	b := filepath.Join(dir, "agreement.md")
	require.NoError(t, os.WriteFile(a, []byte("회사명: 주식회사 가나다\n투자금액: 5억원\n본 텀시트는 법적 구속력이 없다.\n준거법: 대한민국 법"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("회사명: (주)가나다\n투자금액: 500,000,000원\n제1조 (진술 및 보장)\n제2조 (손해배상)\n준거법: 대한민국 법"), 0o600))

	res, err := newSession(t).Review(context.Background(), Request{
		A: &Input{Path: a, DocType: constants.DocTypeTermSheet},
		B: &Input{Path: b, DocType: constants.DocTypeInvestmentAgreement},
	})
	require.NoError(t, err)
	assert.Equal(t, "termsheet.txt", res.A.Name)
	assert.Equal(t, constants.StatusMatch, res.Comparisons[0].Status)
	assert.Equal(t, constants.StatusMatch, res.Comparisons[2].Status)
	assert.NotEmpty(t, res.A.Clauses)
	assert.Zero(t, res.HighCount())
	assert.Equal(t, "termsheet.txt vs agreement.md", res.Label())
}

func TestMaskedResult(t *testing.T) {
	res, err := newSession(t).Review(context.Background(), Request{
		A: inline("회사명: 주식회사 가나다\n투자금액: 5억원\n담당자: 홍길동"),
		B: inline("회사명: 주식회사 가나다\n투자금액: 6억원"),
	})
	require.NoError(t, err)

	masked := res.Masked()
	assert.True(t, masked.IsMasked)
	assert.False(t, res.IsMasked)
	assert.Equal(t, "[AMOUNT_1]", masked.A.Fields["investment_amount"].Value)
	assert.Equal(t, "[AMOUNT_1]", masked.A.Fields["investment_amount"].Normalized)
	assert.Equal(t, "[COMPANY_1]", masked.A.Fields["company_name"].Normalized)
	assert.Equal(t, "[AMOUNT]", masked.Comparisons[2].Note)

	b, err := json.Marshal(masked)
	require.NoError(t, err)
	out := string(b)
	for _, secret := range []string{"가나다", "5억원", "6억원", "홍길동", "100000000"} {
		assert.NotContains(t, out, secret)
	}
	assert.NotContains(t, out, "replacements")

	again, err := json.Marshal(masked.Masked())
	require.NoError(t, err)
	assert.Equal(t, out, string(again))

	// original is untouched
	assert.Equal(t, "5억원", res.A.Fields["investment_amount"].Value)
	assert.Equal(t, "[COMPANY_1]", res.Replacements()["가나다"])
}

func TestProseGetsMaskedOpinion(t *testing.T) {
	fp := &fakeProse{}
	res, err := newSession(t, WithProse(fp)).Review(context.Background(), Request{A: inline("투자금액: 5억원"), B: inline("투자금액: 6억원")})
	require.NoError(t, err)
	require.NotNil(t, res.Prose)
	assert.Equal(t, "검토 의견입니다.", res.Prose.Text)
	assert.NotContains(t, string(fp.got), "5억원")
	assert.True(t, strings.Contains(string(fp.got), "[AMOUNT_1]"))
	assert.NoError(t, llm.ValidateJSONAgainstSchema(llm.OpinionJSONSchema(), fp.got))
}

func TestProseFailureKeepsOpinion(t *testing.T) {
	fp := &fakeProse{err: errors.New("llm down")}
	res, err := newSession(t, WithProse(fp)).Review(context.Background(), Request{A: inline("투자금액: 5억원"), B: inline("투자금액: 6억원")})
	require.NoError(t, err)
	assert.Nil(t, res.Prose)
	assert.Equal(t, "llm down", res.ProseError)
	require.Len(t, res.Opinion.Items, 1)
	assert.Contains(t, res.Opinion.Items[0].Detail, "5억원")
}
