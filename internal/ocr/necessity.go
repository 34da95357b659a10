package ocr

import (
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/docreview/constants"
)

// Thresholds tune the OCR necessity heuristics. Zero values take the defaults.
type Thresholds struct {
	MinCharsPerPage  int     `toml:"min_chars_per_page"`
	SingleCharRatio  float64 `toml:"single_char_ratio"`
	PlaceholderRatio float64 `toml:"placeholder_ratio"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MinCharsPerPage:  constants.DefaultMinCharsPerPage,
		SingleCharRatio:  constants.DefaultSingleCharRatio,
		PlaceholderRatio: constants.DefaultPlaceholderRatio,
	}
}

func (t Thresholds) withDefaults() Thresholds {
	d := DefaultThresholds()
	if t.MinCharsPerPage <= 0 {
		t.MinCharsPerPage = d.MinCharsPerPage
	}
	if t.SingleCharRatio <= 0 {
		t.SingleCharRatio = d.SingleCharRatio
	}
	if t.PlaceholderRatio <= 0 {
		t.PlaceholderRatio = d.PlaceholderRatio
	}
	return t
}

// Reasons reported by DetectNecessity.
const (
	ReasonEmpty        = "empty"
	ReasonLowDensity   = "low_density"
	ReasonBrokenHangul = "broken_hangul"
	ReasonPlaceholders = "placeholder_glyphs"
)

type Decision struct {
	Required bool
	Reason   string
}

// DetectNecessity decides from already-extracted text whether a document
// should go through OCR. It performs no I/O.
func DetectNecessity(text string, pageCount int, th Thresholds) Decision {
	th = th.withDefaults()
	if pageCount < 1 {
		pageCount = 1
	}
	if strings.TrimSpace(text) == "" {
		return Decision{Required: true, Reason: ReasonEmpty}
	}
	if utf8.RuneCountInString(text) < th.MinCharsPerPage*pageCount {
		return Decision{Required: true, Reason: ReasonLowDensity}
	}
	if singleCharHangulRatio(text) >= th.SingleCharRatio {
		return Decision{Required: true, Reason: ReasonBrokenHangul}
	}
	if placeholderRatio(text) >= th.PlaceholderRatio {
		return Decision{Required: true, Reason: ReasonPlaceholders}
	}
	return Decision{}
}

func isHangulSyllable(r rune) bool { return r >= 0xAC00 && r <= 0xD7A3 }

// singleCharHangulRatio is the share of one-rune tokens among tokens that
// contain a Hangul syllable. Glyph-per-token extraction shows up here.
func singleCharHangulRatio(s string) float64 {
	var hangul, single int
	for _, tok := range strings.Fields(s) {
		if strings.IndexFunc(tok, isHangulSyllable) < 0 {
			continue
		}
		hangul++
		if utf8.RuneCountInString(tok) == 1 {
			single++
		}
	}
	if hangul == 0 {
		return 0
	}
	return float64(single) / float64(hangul)
}

func isPlaceholder(r rune) bool {
	switch r {
	case '●', '■', '□', utf8.RuneError:
		return true
	}
	return false
}

func placeholderRatio(s string) float64 {
	var total, ph int
	for _, r := range s {
		total++
		if isPlaceholder(r) {
			ph++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(ph) / float64(total)
}
