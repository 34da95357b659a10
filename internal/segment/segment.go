// Package segment holds the text unit shared by every stage of a review:
// a piece of extracted text tagged with the locator it came from.
package segment

import (
	"sort"
	"strings"
)

type Segment struct {
	Source Locator `json:"source"`
	Text   string  `json:"text"`
}

// Sort orders segments by locator in place.
func Sort(segs []Segment) {
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].Source.Less(segs[j].Source) })
}

// Merge seeds a locator map with native segments, lets every OCR segment
// replace or insert by locator, and returns the result sorted.
func Merge(native, ocr []Segment) []Segment {
	byLoc := make(map[Locator]Segment, len(native)+len(ocr))
	for _, s := range native {
		byLoc[s.Source] = s
	}
	for _, s := range ocr {
		byLoc[s.Source] = s
	}
	out := make([]Segment, 0, len(byLoc))
	for _, s := range byLoc {
		out = append(out, s)
	}
	Sort(out)
	return out
}

// Join concatenates segment texts with blank lines between them.
func Join(segs []Segment) string {
	parts := make([]string, 0, len(segs))
	for _, s := range segs {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, "\n\n")
}
