package fields

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/joseph-ayodele/docreview/internal/segment"
)

var bigUnits = map[rune]float64{'조': 1e12, '억': 1e8, '만': 1e4}
var smallUnits = map[rune]float64{'천': 1e3, '백': 1e2, '십': 10}

var amountNoise = strings.NewReplacer("금", "", "원", "", "₩", "", "KRW", "", "krw", "", ",", "", " ", "", " ", "")

// ParseAmount reads Korean-scale amounts ("5억원", "1억 2,000만원",
// "3천만원", "1.5억") and plain digit groups ("500,000,000원").
// It returns nil when the text is not a well-formed amount.
func ParseAmount(s string) *int64 {
	s = strings.TrimRight(amountNoise.Replace(strings.TrimSpace(s)), ".")
	if s == "" {
		return nil
	}

	var total, section float64
	pending, havePending := 0.0, false
	runes := []rune(s)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsDigit(r) || r == '.':
			j := i
			for j < len(runes) && (unicode.IsDigit(runes[j]) || runes[j] == '.') {
				j++
			}
			v, err := strconv.ParseFloat(string(runes[i:j]), 64)
			if err != nil || havePending {
				return nil
			}
			pending, havePending = v, true
			i = j
			continue
		case smallUnits[r] > 0:
			if !havePending {
				pending = 1
			}
			section += pending * smallUnits[r]
			havePending = false
		case bigUnits[r] > 0:
			if havePending {
				section += pending
				havePending = false
			}
			if section == 0 {
				section = 1
			}
			total += section * bigUnits[r]
			section = 0
		default:
			return nil
		}
		i++
	}
	total += section
	if havePending {
		total += pending
	}
	if total > math.MaxInt64 || math.IsNaN(total) {
		return nil
	}
	v := int64(math.Round(total))
	return &v
}

// ParseCount keeps only the digits of s.
func ParseCount(s string) *int64 {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return nil
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

var reEntityMarker = regexp.MustCompile(`(?i)\(\s*주\s*\)|㈜|주식회사|\(\s*유\s*\)|유한회사|\bco\.?,?\s*ltd\.?|\binc(?:orporated)?\b\.?|\bltd\b\.?|\blimited\b|\bcorp(?:oration)?\b\.?|\bllc\b`)

// NormalizeCompany drops corporate-entity markers and collapses whitespace.
func NormalizeCompany(s string) string {
	s = reEntityMarker.ReplaceAllString(s, " ")
	return strings.Trim(segment.Collapse(s), " ,.")
}
