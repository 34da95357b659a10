package llm

import "strings"

const maxOpinionBytes = 12000

// BuildProseSystemPrompt is the fixed instruction block for opinion prose.
func BuildProseSystemPrompt() string {
	parts := []string{
		"You are a Korean legal/financial document reviewer writing for a deal team.",
		"You receive a JSON review opinion comparing two documents (A and B). Return ONLY JSON with keys 'prose' and optional 'highlights'.",
		"'prose' is 3 to 6 short paragraphs in formal Korean (합니다체). Start with the overall assessment, then the high and medium items, then open questions.",
		"'highlights' is at most 5 one-line Korean bullet strings.",
		"Tokens such as [COMPANY_1], [AMOUNT_2] or [DATE] are masked values. Keep them exactly as written; never guess the hidden value.",
		"Do not add facts, numbers or legal conclusions that are not in the JSON.",
		"Never output null. If there is nothing to highlight, omit 'highlights'.",
	}
	return strings.Join(parts, " ")
}

// BuildProseUserPrompt wraps the opinion JSON, truncated to a safe size.
func BuildProseUserPrompt(opinionJSON []byte) string {
	var b strings.Builder
	b.WriteString("Review opinion JSON:\n")
	if len(opinionJSON) > maxOpinionBytes {
		b.Write(opinionJSON[:maxOpinionBytes])
		b.WriteString("\n(truncated)")
	} else {
		b.Write(opinionJSON)
	}
	b.WriteString("\n\nReturn ONLY JSON that matches the provided schema.")
	return b.String()
}
