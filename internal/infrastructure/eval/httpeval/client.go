package httpeval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/voxpaper/paper-narrator/internal/infrastructure/resilience"
)

// Client asks an external scoring service how faithful and listenable a
// generated narration is relative to the source paper.
type Client struct {
	baseURL    string
	httpClient *http.Client
	executor   *resilience.Executor
}

type Options struct {
	Timeout            time.Duration
	ResilienceExecutor *resilience.Executor
}

func New(baseURL string, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		executor:   options.ResilienceExecutor,
	}
}

func (c *Client) Evaluate(ctx context.Context, originalText, generatedText, audioRef string) (map[string]float64, error) {
	payload := map[string]any{
		"original_text":  originalText,
		"generated_text": generatedText,
		"audio_ref":      audioRef,
	}

	var response struct {
		Metrics map[string]float64 `json:"metrics"`
	}
	call := func(ctx context.Context) error {
		return c.postJSON(ctx, "/api/evaluate", payload, &response)
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "eval.evaluate", call, classifyEvalError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, wrapTemporaryIfNeeded("evaluate narration", err)
	}
	return response.Metrics, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal evaluate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create evaluate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("evaluator request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &HTTPStatusError{
			Operation:  "evaluate",
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(raw),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode evaluate response: %w", err)
	}
	return nil
}
