package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docreview/internal/common"
)

type fakeRunner struct {
	name   string
	args   []string
	stdout []byte
	err    error
	onRun  func(args []string)
}

func (f *fakeRunner) Run(_ context.Context, name string, _ *slog.Logger, args ...string) ([]byte, []byte, error) {
	f.name, f.args = name, args
	if f.onRun != nil {
		f.onRun(args)
	}
	if f.err != nil {
		return nil, []byte("boom"), f.err
	}
	return f.stdout, nil, nil
}

func TestCLIRecognizerArgs(t *testing.T) {
	var seen []byte
	r := &fakeRunner{stdout: []byte("회사명: 가나다\n")}
	r.onRun = func(args []string) {
		seen, _ = os.ReadFile(args[0])
	}
	rec := NewCLIRecognizer(Config{TessdataDir: "/td", PSM: 6}, r, quietLogger())

	text, err := rec.Recognize(context.Background(), []byte("PNGDATA"))
	require.NoError(t, err)
	assert.Equal(t, "회사명: 가나다\n", text)
	assert.Equal(t, "tesseract", r.name)
	assert.Equal(t, []string{"stdout", "-l", "kor+eng", "--psm", "6", "--tessdata-dir", "/td"}, r.args[1:])
	assert.Equal(t, []byte("PNGDATA"), seen)
	_, statErr := os.Stat(r.args[0])
	assert.True(t, os.IsNotExist(statErr), "temp image removed")
}

func TestCLIRecognizerError(t *testing.T) {
	rec := NewCLIRecognizer(Config{}, &fakeRunner{err: errors.New("exit 1")}, quietLogger())
	_, err := rec.Recognize(context.Background(), []byte("x"))
	require.ErrorContains(t, err, "tesseract")
}

func TestPDFRendererArgs(t *testing.T) {
	r := &fakeRunner{}
	r.onRun = func(args []string) {
		prefix := args[len(args)-1]
		require.NoError(t, os.WriteFile(prefix+".png", []byte("img"), 0o600))
	}
	pr := NewPDFRenderer("/docs/a.pdf", Config{}, r, quietLogger())

	b, err := pr.Render(context.Background(), 2, 36)
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), b)
	assert.Equal(t, "pdftoppm", r.name)
	assert.Equal(t, []string{"-r", "36", "-f", "3", "-l", "3", "-png", "-singlefile", "/docs/a.pdf"}, r.args[:9])
}

func TestHTTPRecognizer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "image/png", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		if string(body) == "bad" {
			http.Error(w, "nope", http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "recognized " + string(body)})
	}))
	defer srv.Close()

	rec := NewHTTPRecognizer(Config{HTTPEndpoint: srv.URL, HTTPToken: "tok", HTTPRate: 100}, quietLogger())
	text, err := rec.Recognize(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "recognized img", text)

	_, err = rec.Recognize(context.Background(), []byte("bad"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "502"))
}

func TestNewRecognizerCapabilities(t *testing.T) {
	orig := LookPath
	t.Cleanup(func() { LookPath = orig })

	LookPath = func(string) (string, error) { return "", errors.New("not found") }
	_, err := NewRecognizer(Config{}, nil, quietLogger())
	assert.ErrorIs(t, err, common.ErrCapabilityUnavailable)
	assert.ErrorIs(t, CheckPDFRenderer(Config{}), common.ErrCapabilityUnavailable)

	_, err = NewRecognizer(Config{Engine: EngineHTTP}, nil, quietLogger())
	assert.ErrorIs(t, err, common.ErrCapabilityUnavailable)

	_, err = NewRecognizer(Config{Engine: "carrier-pigeon"}, nil, quietLogger())
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	LookPath = func(string) (string, error) { return "/usr/bin/tesseract", nil }
	rec, err := NewRecognizer(Config{}, nil, quietLogger())
	require.NoError(t, err)
	assert.IsType(t, &CLIRecognizer{}, rec)
	assert.NoError(t, CheckPDFRenderer(Config{}))
}
