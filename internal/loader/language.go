package loader

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// LanguageDetector returns a lowercase ISO 639-1 code, or "" when unsure.
type LanguageDetector interface {
	Detect(text string) string
}

type linguaDetector struct {
	detector lingua.LanguageDetector
}

// NewLinguaDetector distinguishes the languages the field and clause tables cover.
func NewLinguaDetector() LanguageDetector {
	d := lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.Korean, lingua.English).
		Build()
	return &linguaDetector{detector: d}
}

func (l *linguaDetector) Detect(text string) string {
	const sample = 4000
	if len(text) > sample {
		text = strings.ToValidUTF8(text[:sample], "")
	}
	lang, ok := l.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
