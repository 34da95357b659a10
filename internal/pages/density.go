package pages

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"

	"github.com/joseph-ayodele/docreview/internal/ocr"
)

// DarkFraction is the share of pixels whose 8-bit r+g+b sum is below threshold.
func DarkFraction(img image.Image, threshold int) float64 {
	b := img.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 0
	}
	dark := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if int(r>>8)+int(g>>8)+int(bl>>8) < threshold {
				dark++
			}
		}
	}
	return float64(dark) / float64(total)
}

// RendererDensity measures pages by rendering them at a low DPI.
func RendererDensity(r ocr.Renderer, dpi, threshold int) DensityFunc {
	return func(ctx context.Context, pageIndex int) (float64, error) {
		b, err := r.Render(ctx, pageIndex, dpi)
		if err != nil {
			return 0, err
		}
		img, _, err := image.Decode(bytes.NewReader(b))
		if err != nil {
			return 0, fmt.Errorf("decode page %d: %w", pageIndex+1, err)
		}
		return DarkFraction(img, threshold), nil
	}
}
