package ocr

import (
	"time"

	"github.com/joseph-ayodele/docreview/constants"
)

// Engine names a recognizer backend.
type Engine string

const (
	EngineCLI       Engine = "cli"       // tesseract binary via Runner
	EngineGosseract Engine = "gosseract" // in-process, needs -tags ocr
	EngineHTTP      Engine = "http"      // remote image -> text service
)

type Config struct {
	Engine Engine // default EngineCLI

	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "kor+eng"
	TessdataDir   string
	PSM           int // 0 leaves tesseract's default

	HTTPEndpoint string
	HTTPToken    string
	HTTPRate     float64 // requests per second, 0 = unlimited
	HTTPTimeout  time.Duration

	WorkingDPI  int // default 200
	DensityDPI  int // default 36
	Concurrency int // pages in flight, default 1

	Thresholds Thresholds
}

func (c Config) withDefaults() Config {
	if c.Engine == "" {
		c.Engine = EngineCLI
	}
	if c.Pdftoppm == "" {
		c.Pdftoppm = "pdftoppm"
	}
	if c.Tesseract == "" {
		c.Tesseract = "tesseract"
	}
	if c.TesseractLang == "" {
		c.TesseractLang = "kor+eng"
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 60 * time.Second
	}
	if c.WorkingDPI <= 0 {
		c.WorkingDPI = constants.DefaultWorkingDPI
	}
	if c.DensityDPI <= 0 {
		c.DensityDPI = constants.DefaultDensityDPI
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 1
	}
	c.Thresholds = c.Thresholds.withDefaults()
	return c
}
