// Package mask replaces sensitive values with stable session tokens before
// text leaves the process.
package mask

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/docreview/internal/fields"
	"github.com/joseph-ayodele/docreview/internal/segment"
)

const (
	minValueRunes = 2
	maxPasses     = 8
)

var categories = map[fields.Type]string{
	fields.TypeCompany: "COMPANY",
	fields.TypeAmount:  "AMOUNT",
	fields.TypeCount:   "COUNT",
	fields.TypeDate:    "DATE",
	fields.TypeText:    "TEXT",
}

type entry struct {
	value    string
	token    string
	re       *regexp.Regexp
	template string
}

// Map is the per-session replacement table. It is read-only after Build.
type Map struct {
	entries []entry
}

// Build assigns tokens to every extracted value, document by document and
// field by field in definition order. Each category keeps its own counter.
func Build(docs ...fields.Fields) *Map {
	m := &Map{}
	seen := map[string]bool{}
	counters := map[string]int{}
	add := func(value, token string) {
		value = segment.Collapse(value)
		if !usable(value) || seen[value] {
			return
		}
		seen[value] = true
		m.entries = append(m.entries, entry{value: value, token: token, re: valuePattern(value), template: "${pre}" + token + "${post}"})
	}

	for _, doc := range docs {
		for _, def := range fields.Definitions {
			f, ok := doc[def.Name]
			if !ok {
				continue
			}
			value := segment.Collapse(f.Value)
			if !usable(value) || seen[value] {
				continue
			}
			cat := categories[def.Type]
			counters[cat]++
			token := fmt.Sprintf("[%s_%d]", cat, counters[cat])
			add(value, token)
			if def.Type == fields.TypeCompany {
				if name, ok := f.Normalized.(string); ok {
					add(name, token)
				}
			}
		}
	}

	sort.SliceStable(m.entries, func(i, j int) bool {
		return utf8.RuneCountInString(m.entries[i].value) > utf8.RuneCountInString(m.entries[j].value)
	})
	return m
}

func usable(value string) bool {
	return utf8.RuneCountInString(value) >= minValueRunes && !reToken.MatchString(value)
}

// valuePattern matches value with any run of whitespace between its words.
// A value that starts or ends with a digit must not touch further digits,
// so "5억원" never matches inside "15억원".
func valuePattern(value string) *regexp.Regexp {
	words := strings.Fields(value)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	pre, post := `(?P<pre>)`, `(?P<post>)`
	if first, _ := utf8.DecodeRuneInString(value); isNumeric(first) {
		pre = `(?P<pre>^|[^0-9.,])`
	}
	if last, _ := utf8.DecodeLastRuneInString(value); isNumeric(last) {
		post = `(?P<post>[^0-9,.]|[,.][^0-9]|[,.]$|$)`
	}
	return regexp.MustCompile(pre + strings.Join(words, `\s+`) + post)
}

func isNumeric(r rune) bool { return r >= '0' && r <= '9' }

// Tokens returns value → token. Internal use only; never show it to users.
func (m *Map) Tokens() map[string]string {
	out := map[string]string{}
	if m == nil {
		return out
	}
	for _, e := range m.entries {
		out[e.value] = e.token
	}
	return out
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Apply masks text. A nil Map applies only the line and structural masks.
// Apply(Apply(x)) == Apply(x).
func (m *Map) Apply(text string) string {
	for range maxPasses {
		next := m.pass(text)
		if next == text {
			break
		}
		text = next
	}
	return text
}

// Text masks with the fixed patterns only.
func Text(text string) string {
	var m *Map
	return m.Apply(text)
}

func (m *Map) pass(text string) string {
	if m != nil {
		for _, e := range m.entries {
			text = outsideTokens(text, func(gap string) string {
				return e.re.ReplaceAllString(gap, e.template)
			})
		}
	}
	for _, lm := range lineMasks {
		text = lm.re.ReplaceAllString(text, "${1}"+lm.token)
	}
	text = outsideTokens(text, func(gap string) string {
		return inlinePerson.ReplaceAllString(gap, "${1}${2}[PERSON]")
	})
	for _, sp := range structural {
		text = outsideTokens(text, func(gap string) string {
			return sp.re.ReplaceAllLiteralString(gap, sp.token)
		})
	}
	return text
}

// outsideTokens rewrites only the text between existing tokens.
func outsideTokens(text string, fn func(string) string) string {
	locs := reToken.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return fn(text)
	}
	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	for _, loc := range locs {
		b.WriteString(fn(text[prev:loc[0]]))
		b.WriteString(text[loc[0]:loc[1]])
		prev = loc[1]
	}
	b.WriteString(fn(text[prev:]))
	return b.String()
}
