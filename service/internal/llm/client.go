// internal/llm/client.go
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	engine "github.com/jason-s-yu/idiomchain/engine"
	"github.com/jason-s-yu/idiomchain/engine/agent"
	"github.com/jason-s-yu/idiomchain/service/internal/battle"
	"github.com/jason-s-yu/idiomchain/service/internal/models"
	log "github.com/sirupsen/logrus"
)

// DefaultTimeout bounds a single completion call.
const DefaultTimeout = 60 * time.Second

var (
	ErrNoChoices = errors.New("completion returned no choices")
	ErrBadReply  = errors.New("reply is not a move object")
)

// Client is a move source backed by OpenAI-compatible chat completion
// endpoints. Each request carries its own endpoint, key and model, so one
// Client serves both players.
type Client struct {
	HTTP    *http.Client
	Timeout time.Duration
}

var _ battle.MoveSource = (*Client)(nil)

// NewClient returns a Client with the given per-call timeout (DefaultTimeout when zero).
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{HTTP: &http.Client{}, Timeout: timeout}
}

type completionRequest struct {
	Model          string         `json:"model"`
	Messages       []Message      `json:"messages"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NextMove asks the requesting player's model for its move.
func (c *Client) NextMove(ctx context.Context, req battle.MoveRequest) (engine.MoveClaim, error) {
	msgs := BuildMessages(req.History, req.Side, req.StartPhrase, req.SystemPrompt)
	text, err := c.Complete(ctx, req.Player, msgs)
	if err != nil {
		return engine.MoveClaim{}, err
	}
	claim, ok := agent.ParseMoveText(text)
	if !ok {
		return engine.MoveClaim{}, fmt.Errorf("%w: %q", ErrBadReply, truncate(text, 120))
	}
	return claim, nil
}

// Complete sends one chat completion and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, cfg models.ModelConfig, msgs []Message) (string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(completionRequest{
		Model:          cfg.Model,
		Messages:       msgs,
		ResponseFormat: map[string]any{"type": "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}
	url := strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	start := time.Now()
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("completion call to %s: %w", cfg.Model, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}
	log.WithFields(log.Fields{"model": cfg.Model, "status": resp.StatusCode, "elapsed": time.Since(start)}).Debug("completion returned")

	var out completionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode completion response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := http.StatusText(resp.StatusCode)
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return "", fmt.Errorf("completion call to %s: status %d: %s", cfg.Model, resp.StatusCode, msg)
	}
	if len(out.Choices) == 0 {
		return "", ErrNoChoices
	}
	return out.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
