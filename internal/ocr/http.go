package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"
)

// HTTPRecognizer posts PNG bytes to a remote OCR service that answers
// with {"text": "..."}.
type HTTPRecognizer struct {
	endpoint string
	token    string
	client   *http.Client
	limiter  *rate.Limiter
	logger   *slog.Logger
}

func NewHTTPRecognizer(cfg Config, logger *slog.Logger) *HTTPRecognizer {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	limit := rate.Inf
	if cfg.HTTPRate > 0 {
		limit = rate.Limit(cfg.HTTPRate)
	}
	return &HTTPRecognizer{
		endpoint: cfg.HTTPEndpoint,
		token:    cfg.HTTPToken,
		client:   &http.Client{Timeout: cfg.HTTPTimeout},
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logger,
	}
}

func (h *HTTPRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := h.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("ocr rate limit: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(image))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "image/png")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr http error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			h.logger.Warn("ocr.http.body_close_error", "error", err)
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read ocr response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("ocr status %d: %s", resp.StatusCode, truncate(string(body), 512))
	}
	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode ocr response: %w", err)
	}
	return out.Text, nil
}
