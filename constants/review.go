package constants

// Severity tags review items and field/clause importance.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
	SeverityInfo   Severity = "info"
)

// SeverityOrder is the fixed bucket order used for summaries.
var SeverityOrder = []Severity{SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}

// OCRMode controls whether the loader consults the necessity detector.
type OCRMode string

const (
	OCROff   OCRMode = "off"
	OCRAuto  OCRMode = "auto"
	OCRForce OCRMode = "force"
)

// Strategy names a page-selection strategy.
type Strategy string

const (
	StrategyUniform   Strategy = "uniform"
	StrategyFrontBack Strategy = "front_back"
	StrategyDensity   Strategy = "density"
)

// DocType selects the clause taxonomy for a document.
type DocType string

const (
	DocTypeNone                DocType = ""
	DocTypeTermSheet           DocType = "term_sheet"
	DocTypeInvestmentAgreement DocType = "investment_agreement"
)

// Heuristic defaults, tuned on Korean-script documents.
const (
	DefaultMinCharsPerPage   = 200
	DefaultSingleCharRatio   = 0.35
	DefaultPlaceholderRatio  = 0.02
	DefaultDarkLumaThreshold = 540
	DefaultDensityDPI        = 36
	DefaultWorkingDPI        = 200
	SnippetRadius            = 80
	MaxQuestions             = 6
)
