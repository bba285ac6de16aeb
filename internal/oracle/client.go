package oracle

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

	"github.com/sethvargo/go-retry"
)

// ErrUnavailable is returned when the chat oracle cannot be reached or
// returns an unusable response after the retry budget is spent. Callers must
// surface it as a dependency failure, never as assistant output.
var ErrUnavailable = errors.New("chat oracle unavailable")

// Client calls the external chat-completion API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a chat oracle client with a bounded per-request timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model            string        `json:"model"`
	Messages         []chatMessage `json:"messages"`
	MaxTokens        int           `json:"max_tokens"`
	Temperature      float64       `json:"temperature"`
	TopP             float64       `json:"top_p"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
	PresencePenalty  float64       `json:"presence_penalty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt under the given profile and returns the generated
// text. The profile's instructions are prepended to the prompt. Transient
// transport failures and 5xx responses are retried once; anything still
// failing after that wraps ErrUnavailable.
func (c *Client) Complete(ctx context.Context, profile Profile, prompt string) (string, error) {
	fullPrompt := prompt
	if profile.Instructions != "" {
		fullPrompt = profile.Instructions + " " + prompt
	}

	body, err := json.Marshal(chatRequest{
		Model:            profile.Model,
		Messages:         []chatMessage{{Role: "user", Content: fullPrompt}},
		MaxTokens:        profile.MaxTokens,
		Temperature:      profile.Temperature,
		TopP:             profile.TopP,
		FrequencyPenalty: profile.FrequencyPenalty,
		PresencePenalty:  profile.PresencePenalty,
	})
	if err != nil {
		return "", err
	}

	var text string
	backoff := retry.WithMaxRetries(1, retry.NewConstant(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		text, err = c.complete(ctx, body)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return text, nil
}

func (c *Client) complete(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", retry.RetryableError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		io.Copy(io.Discard, resp.Body)
		return "", retry.RetryableError(fmt.Errorf("status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("response has no choices")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
