package httptts

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

// Client speaks to an external text-to-speech service. The service accepts a
// JSON request and answers with raw audio bytes; the format is opaque here.
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
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		executor:   options.ResilienceExecutor,
	}
}

func (c *Client) Synthesize(ctx context.Context, text string, voice map[string]string) ([]byte, error) {
	payload := map[string]any{
		"text": text,
	}
	if len(voice) > 0 {
		payload["voice"] = voice
	}

	var audio []byte
	call := func(ctx context.Context) error {
		var err error
		audio, err = c.postForAudio(ctx, "/api/synthesize", payload)
		return err
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "tts.synthesize", call, classifyTTSError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, wrapTemporaryIfNeeded("synthesize speech", err)
	}
	return audio, nil
}

func (c *Client) postForAudio(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal synthesize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create synthesize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts synthesize request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &HTTPStatusError{
			Operation:  "synthesize",
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(raw),
		}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read synthesize response: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("tts synthesize: empty audio response")
	}
	return audio, nil
}
