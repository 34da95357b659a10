package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"github.com/joseph-ayodele/docreview/constants"
)

// Renderer rasterizes one page (0-based) of a document to PNG bytes.
type Renderer interface {
	Render(ctx context.Context, pageIndex, dpi int) ([]byte, error)
}

// PDFRenderer renders PDF pages with pdftoppm.
type PDFRenderer struct {
	path   string
	bin    string
	runner Runner
	logger *slog.Logger
}

func NewPDFRenderer(path string, cfg Config, runner Runner, logger *slog.Logger) *PDFRenderer {
	cfg = cfg.withDefaults()
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFRenderer{path: path, bin: cfg.Pdftoppm, runner: runner, logger: logger}
}

func (r *PDFRenderer) Render(ctx context.Context, pageIndex, dpi int) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "dr-pp-*")
	if err != nil {
		return nil, err
	}
	defer func(path string) {
		if err := os.RemoveAll(path); err != nil {
			r.logger.Warn("ocr.render.cleanup_failed", "dir", path, "error", err)
		}
	}(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	n := strconv.Itoa(pageIndex + 1)
	// pdftoppm -r <dpi> -f N -l N -png -singlefile <in.pdf> <tmp/page>
	_, errb, err := r.runner.Run(ctx, r.bin, r.logger,
		"-r", strconv.Itoa(dpi), "-f", n, "-l", n, "-png", "-singlefile", r.path, prefix)
	if err != nil {
		return nil, fmt.Errorf("pdftoppm page %s: %w: %s", n, err, truncate(string(errb), 512))
	}
	b, err := os.ReadFile(prefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("pdftoppm produced no image for page %s: %w", n, err)
	}
	return b, nil
}

// ImageRenderer serves a single raster file as page 0. The file is treated
// as a scan at the working DPI; lower DPIs downscale it.
type ImageRenderer struct {
	path       string
	nominalDPI int
}

func NewImageRenderer(path string) *ImageRenderer {
	return &ImageRenderer{path: path, nominalDPI: constants.DefaultWorkingDPI}
}

func (r *ImageRenderer) Render(_ context.Context, pageIndex, dpi int) ([]byte, error) {
	if pageIndex != 0 {
		return nil, fmt.Errorf("image has a single page, got index %d", pageIndex)
	}
	f, err := os.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if dpi > 0 && dpi < r.nominalDPI {
		img = Scale(img, float64(dpi)/float64(r.nominalDPI))
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Scale resizes img by factor with bilinear sampling; the result is at least 1x1.
func Scale(img image.Image, factor float64) image.Image {
	b := img.Bounds()
	w := max(1, int(float64(b.Dx())*factor))
	h := max(1, int(float64(b.Dy())*factor))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
