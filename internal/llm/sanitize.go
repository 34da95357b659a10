package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strings"
)

const maxHighlights = 5

// SanitizeProseJSON
// - Strips markdown code fences around the object
// - Renames known synonyms (text/summary -> prose)
// - Drops unknown keys, empty highlights and excess highlights
func SanitizeProseJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := strings.TrimSpace(string(raw))
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	var m map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	var dropped []string
	renamed := func(from, to string) {
		if v, ok := m[from]; ok {
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			dropped = append(dropped, from+"->"+to)
		}
	}
	renamed("text", "prose")
	renamed("summary", "prose")
	renamed("opinion", "prose")

	if v, ok := m["prose"].(string); ok {
		m["prose"] = strings.TrimSpace(v)
	}

	switch hs := m["highlights"].(type) {
	case nil:
		delete(m, "highlights")
	case []any:
		kept := make([]any, 0, len(hs))
		for _, h := range hs {
			str, ok := h.(string)
			if !ok || strings.TrimSpace(str) == "" {
				continue
			}
			kept = append(kept, strings.TrimSpace(str))
		}
		if len(kept) > maxHighlights {
			kept = kept[:maxHighlights]
			dropped = append(dropped, "highlights(excess)")
		}
		if len(kept) == 0 {
			delete(m, "highlights")
		} else {
			m["highlights"] = kept
		}
	default:
		delete(m, "highlights")
		dropped = append(dropped, "highlights(type)")
	}

	for k := range maps.Clone(m) {
		if k != "prose" && k != "highlights" {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.prose.sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}
