package openai

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docreview/internal/common"
	"github.com/joseph-ayodele/docreview/internal/review"
)

func opinionJSON(t *testing.T) []byte {
	t.Helper()
	b, err := json.Marshal(review.Synthesize(review.Input{A: &review.Side{}, B: &review.Side{OCRUsed: true}}))
	require.NoError(t, err)
	return b
}

func chatReply(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []any{map[string]any{"message": map[string]any{"content": content}}},
	})
	return string(b)
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := NewClient(Config{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrCapabilityUnavailable))
}

func TestSynthesizeProse(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(chatReply(`{"prose":"문서 B는 OCR로 인식되었습니다.","highlights":["OCR 확인 필요"]}`)))
	}))
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1/", Model: "m", RatePerSec: 100}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	p, err := c.SynthesizeProse(context.Background(), opinionJSON(t))
	require.NoError(t, err)
	assert.Equal(t, "문서 B는 OCR로 인식되었습니다.", p.Text)
	assert.Equal(t, []string{"OCR 확인 필요"}, p.Highlights)
	assert.Equal(t, "m", gotBody["model"])
	assert.Len(t, gotBody["messages"], 3)
}

func TestSynthesizeProseRejectsInvalidOpinion(t *testing.T) {
	c, err := NewClient(Config{APIKey: "k", BaseURL: "http://127.0.0.1:1"}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	_, err = c.SynthesizeProse(context.Background(), []byte(`{"summary":[]}`))
	assert.Error(t, err)
}

func TestSynthesizeProseBadReply(t *testing.T) {
	replies := map[string]string{
		"no choices":   `{"choices":[]}`,
		"empty prose":  chatReply(`{"prose":""}`),
		"not json":     chatReply(`그냥 문장`),
		"garbage body": `<html>`,
	}
	for name, body := range replies {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()
			c, err := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, slog.New(slog.DiscardHandler))
			require.NoError(t, err)
			_, err = c.SynthesizeProse(context.Background(), opinionJSON(t))
			assert.Error(t, err)
		})
	}
}

func TestSynthesizeProseHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()
	c, err := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	_, err = c.SynthesizeProse(context.Background(), opinionJSON(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
