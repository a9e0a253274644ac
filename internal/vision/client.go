package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/refurbly/gradeserver/internal/media"
)

// Client sends one completion request to the reasoning service and returns
// the reply text. It is an interface so tests substitute a deterministic
// implementation instead of making network calls.
type Client interface {
	Complete(ctx context.Context, prompt string, images []media.NormalizedImage) (string, error)
}

type httpClient struct {
	endpoint string
	model    string
	apiKey   string
	httpc    *http.Client
	logger   *slog.Logger
}

// NewClient creates a Client against an OpenAI-compatible chat completions
// endpoint. Every request is bounded by timeout.
func NewClient(endpoint, model, apiKey string, timeout time.Duration, logger *slog.Logger) Client {
	return &httpClient{
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		httpc:    &http.Client{Timeout: timeout},
		logger:   logger.With("system", "vision"),
	}
}

func (c *httpClient) Complete(ctx context.Context, prompt string, images []media.NormalizedImage) (string, error) {
	content := make([]map[string]any, 0, len(images)+1)
	content = append(content, map[string]any{"type": "text", "text": prompt})

	for _, img := range images {
		dataURL := fmt.Sprintf("data:%s;base64,%s", img.MimeType, base64.StdEncoding.EncodeToString(img.Data))
		content = append(content, map[string]any{
			"type":      "image_url",
			"image_url": map[string]any{"url": dataURL},
		})
	}

	body := map[string]any{
		"model": c.model,
		"messages": []any{
			map[string]any{"role": "user", "content": content},
		},
		"temperature":     0.2,
		"max_tokens":      1500,
		"response_format": map[string]any{"type": "json_object"},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrInvocationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvocationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvocationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return "", fmt.Errorf("%w: credential rejected (status %d); check the vision API key", ErrInvocationFailed, resp.StatusCode)
		}
		return "", fmt.Errorf("%w: status %d: %s", ErrInvocationFailed, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var envelope struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("%w: decode envelope: %v", ErrInvocationFailed, err)
	}
	if len(envelope.Choices) == 0 {
		return "", fmt.Errorf("%w: reply contained no choices", ErrInvocationFailed)
	}

	return envelope.Choices[0].Message.Content, nil
}
