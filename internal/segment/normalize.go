package segment

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(`[ \x{00A0}\x{3000}]{2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
	reBoxNoise   = regexp.MustCompile(`(?m)^[ \t]*[_\-=]{3,}[ \t]*$`)
	reAnySpace   = regexp.MustCompile(`\s+`)
)

// Normalize composes Hangul (NFC), folds fullwidth forms, and collapses noisy
// whitespace. Line breaks survive; runs of blank lines become one.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = norm.NFC.String(width.Fold.String(s))
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reBoxNoise.ReplaceAllString(s, "")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	s = strings.Join(lines, "\n")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Collapse turns every whitespace run into a single space and trims.
func Collapse(s string) string {
	return strings.TrimSpace(reAnySpace.ReplaceAllString(s, " "))
}

// Snippet returns a whitespace-collapsed window of radius runes around the
// byte range [start,end) of text.
func Snippet(text string, start, end, radius int) string {
	if start < 0 || end > len(text) || start > end {
		return ""
	}
	runes := []rune(text)
	rs := utf8.RuneCountInString(text[:start])
	re := rs + utf8.RuneCountInString(text[start:end])
	lo := max(0, rs-radius)
	hi := min(len(runes), re+radius)
	return Collapse(string(runes[lo:hi]))
}
