package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cortexintel/cortex/internal/platform/envutil"
	"github.com/cortexintel/cortex/internal/platform/logger"
)

const apiVersion = "2023-06-01"

// Client is the Anthropic Messages API surface used by the extractor and the
// query translator.
type Client interface {
	Complete(ctx context.Context, system string, user string) (string, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	maxRetries int
	httpClient *http.Client
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	apiKey := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic: missing ANTHROPIC_API_KEY")
	}

	baseURL := strings.TrimRight(envutil.Str("ANTHROPIC_BASE_URL", "https://api.anthropic.com"), "/")
	model := envutil.Str("ANTHROPIC_MODEL", "claude-3-haiku-20240307")
	maxTokens := envutil.Int("ANTHROPIC_MAX_TOKENS", 2048)
	timeoutSec := envutil.Int("ANTHROPIC_TIMEOUT_SECONDS", 120)
	maxRetries := envutil.Int("ANTHROPIC_MAX_RETRIES", 3)

	return &client{
		log:        log.With("client", "Anthropic"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		maxTokens:  maxTokens,
		maxRetries: maxRetries,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}, nil
}

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	System      string    `json:"system,omitempty"`
	Messages    []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends one system+user turn and returns the first text block.
func (c *client) Complete(ctx context.Context, system string, user string) (string, error) {
	if strings.TrimSpace(user) == "" {
		return "", fmt.Errorf("anthropic: empty user content")
	}

	req := messagesRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: 0.0,
		System:      system,
		Messages:    []message{{Role: "user", Content: user}},
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("anthropic: marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 2 * time.Second
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		text, retryable, err := c.doOnce(ctx, body)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
		c.log.Warn("anthropic request failed, retrying", "attempt", attempt+1, "error", err)
	}
	return "", fmt.Errorf("anthropic: retries exhausted: %w", lastErr)
}

func (c *client) doOnce(ctx context.Context, body []byte) (text string, retryable bool, err error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("anthropic: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", true, fmt.Errorf("anthropic: do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", true, fmt.Errorf("anthropic: read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", true, fmt.Errorf("anthropic: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("anthropic: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out messagesResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", false, fmt.Errorf("anthropic: decode response: %w", err)
	}
	if out.Error != nil {
		return "", false, fmt.Errorf("anthropic: api error %s: %s", out.Error.Type, out.Error.Message)
	}
	for _, block := range out.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return block.Text, false, nil
		}
	}
	return "", false, fmt.Errorf("anthropic: no text block in response")
}
