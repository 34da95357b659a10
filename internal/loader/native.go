package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tsawler/tabula"
	"github.com/tsawler/tabula/docx"
	"github.com/tsawler/tabula/reader"

	"github.com/joseph-ayodele/docreview/constants"
	"github.com/joseph-ayodele/docreview/internal/segment"
)

// nativeResult is what a file yields before any OCR.
type nativeResult struct {
	segments  []segment.Segment
	pageCount int
	warnings  []string
}

func extractNative(path string, kind constants.DocKind) (nativeResult, error) {
	switch kind {
	case constants.KindPaged:
		return readPDF(path)
	case constants.KindImage:
		if _, err := os.Stat(path); err != nil {
			return nativeResult{}, err
		}
		return nativeResult{pageCount: 1}, nil
	case constants.KindFlow:
		if ext := constants.NormalizeExt(filepath.Ext(path)); ext == "html" || ext == "htm" {
			return readHTML(path)
		}
		return readDOCX(path)
	case constants.KindText:
		b, err := os.ReadFile(path)
		if err != nil {
			return nativeResult{}, err
		}
		return nativeResult{segments: textSegments(string(b)), pageCount: 1}, nil
	}
	return nativeResult{}, fmt.Errorf("no native reader for kind %q", kind)
}

// readPDF yields one segment per non-empty page. A page that fails to
// decode is skipped with a warning.
func readPDF(path string) (nativeResult, error) {
	r, err := reader.Open(path)
	if err != nil {
		return nativeResult{}, fmt.Errorf("open pdf: %w", err)
	}
	defer r.Close()

	n, err := r.PageCount()
	if err != nil {
		return nativeResult{}, fmt.Errorf("pdf page count: %w", err)
	}
	res := nativeResult{pageCount: n}
	ext := tabula.FromReader(r)
	for i := 1; i <= n; i++ {
		text, _, err := ext.Pages(i).Text()
		if err != nil {
			res.warnings = append(res.warnings, fmt.Sprintf("page %d: %v", i, err))
			continue
		}
		if text = segment.Normalize(text); text != "" {
			res.segments = append(res.segments, segment.Segment{Source: segment.PageLocator(i), Text: text})
		}
	}
	return res, nil
}

func readDOCX(path string) (nativeResult, error) {
	r, err := docx.Open(path)
	if err != nil {
		return nativeResult{}, fmt.Errorf("open docx: %w", err)
	}
	defer r.Close()

	text, err := r.Text()
	if err != nil {
		return nativeResult{}, fmt.Errorf("docx text: %w", err)
	}
	return nativeResult{segments: paragraphSegments(strings.Split(text, "\n")), pageCount: 1}, nil
}

var htmlBlocks = "p, li, h1, h2, h3, h4, h5, h6, td, th, blockquote, pre"

// readHTML treats each innermost block element as a paragraph.
func readHTML(path string) (nativeResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nativeResult{}, err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nativeResult{}, fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	var paras []string
	doc.Find(htmlBlocks).Each(func(_ int, s *goquery.Selection) {
		if s.Find(htmlBlocks).Length() > 0 {
			return
		}
		paras = append(paras, s.Text())
	})
	return nativeResult{segments: paragraphSegments(paras), pageCount: 1}, nil
}

func paragraphSegments(paras []string) []segment.Segment {
	var out []segment.Segment
	for _, p := range paras {
		if p = segment.Normalize(p); p != "" {
			out = append(out, segment.Segment{Source: segment.ParaLocator(len(out) + 1), Text: p})
		}
	}
	return out
}

func textSegments(text string) []segment.Segment {
	if text = segment.Normalize(text); text == "" {
		return nil
	}
	return []segment.Segment{{Source: segment.TextLocator(), Text: text}}
}
