package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docreview/internal/common"
	"github.com/joseph-ayodele/docreview/internal/llm"
)

var _ llm.ProseSynthesizer = (*Client)(nil)

// SynthesizeProse implements llm.ProseSynthesizer over chat/completions.
// The opinion is validated before the call and the reply after it.
func (c *Client) SynthesizeProse(ctx context.Context, opinionJSON []byte) (llm.Prose, error) {
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
		ctx = common.WithRequestID(ctx, rid)
	}
	start := time.Now()

	if err := llm.ValidateJSONAgainstSchema(llm.OpinionJSONSchema(), opinionJSON); err != nil {
		c.log.Error("llm.prose.invalid_opinion", "req_id", rid, "error", err)
		return llm.Prose{}, fmt.Errorf("opinion: %w", err)
	}

	c.log.Info("llm.prose.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"opinion_bytes", len(opinionJSON),
	)

	schema := llm.ProseJSONSchema()
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": llm.BuildProseSystemPrompt()},
			{"role": "user", "content": llm.BuildProseUserPrompt(opinionJSON)},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(schema)},
		},
	}

	raw, _, err := llm.SendJSON(ctx, c.http, c.limiter, llm.Request{
		URL:     strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions",
		Body:    body,
		Headers: map[string]string{"Authorization": "Bearer " + c.cfg.APIKey},
	}, c.log)
	if err != nil {
		c.log.Error("llm.prose.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.Prose{}, fmt.Errorf("openai: %w", err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("llm.prose.decode_error", "req_id", rid, "error", err, "raw_bytes", len(raw))
		return llm.Prose{}, fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("llm.prose.no_choices", "req_id", rid, "raw_bytes", len(raw))
		return llm.Prose{}, fmt.Errorf("no choices in openai response")
	}

	content, dropped, err := llm.SanitizeProseJSON([]byte(cc.Choices[0].Message.Content), c.log)
	if err != nil {
		c.log.Error("llm.prose.sanitize_failed", "req_id", rid, "error", err)
		return llm.Prose{}, err
	}
	if err := llm.ValidateJSONAgainstSchema(schema, content); err != nil {
		c.log.Error("llm.prose.schema_validation_failed", "req_id", rid, "error", err, "dropped", dropped)
		return llm.Prose{}, fmt.Errorf("schema validation failed: %w", err)
	}

	var out llm.Prose
	if err := json.Unmarshal(content, &out); err != nil {
		return llm.Prose{}, fmt.Errorf("unmarshal prose: %w", err)
	}

	c.log.Info("llm.prose.ok",
		"req_id", rid,
		"prose_len", len(out.Text),
		"highlights", len(out.Highlights),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
