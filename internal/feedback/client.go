package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vytor/brainplay/internal/errors"
	"github.com/vytor/brainplay/internal/logger"
	"github.com/vytor/brainplay/internal/models"
)

const systemPrompt = "You are a friendly cognitive training coach for children. " +
	"Give short, encouraging and constructive feedback after each brain game."

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	httpClient  *http.Client
	url         string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
}

func New(url, apiKey, model string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		url:         url,
		apiKey:      apiKey,
		model:       model,
		maxTokens:   500,
		temperature: 0.7,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) RequestFeedback(ctx context.Context, rec models.SessionRecord, recent []models.SessionRecord) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("feedback").WithField("session_id", rec.SessionID)

	if c.apiKey == "" {
		return "", fmt.Errorf("%w: no api key configured", errors.ErrFeedbackUnavailable)
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: Prompt(rec, recent)},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrFeedbackUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		log.Error("failed to create request: %v", err)
		return "", fmt.Errorf("%w: %v", errors.ErrFeedbackUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	log.Debug("requesting feedback from %s", c.url)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("feedback request failed: %v", err)
		return "", fmt.Errorf("%w: %v", errors.ErrFeedbackUnavailable, err)
	}
	defer resp.Body.Close()

	log.Debug("feedback response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Warn("feedback request failed: status=%d, body=%s", resp.StatusCode, string(snippet))
		return "", fmt.Errorf("%w: status %d", errors.ErrFeedbackUnavailable, resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Warn("failed to decode feedback response: %v", err)
		return "", fmt.Errorf("%w: %v", errors.ErrFeedbackUnavailable, err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("%w: %s", errors.ErrFeedbackUnavailable, out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", errors.ErrFeedbackUnavailable)
	}

	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", errors.ErrFeedbackUnavailable)
	}
	return text, nil
}

// Prompt renders the user message for rec.
func Prompt(rec models.SessionRecord, recent []models.SessionRecord) string {
	var b strings.Builder
	b.WriteString("A child just finished a brain training game.\n\nGame details:\n")
	fmt.Fprintf(&b, "- Game: %s\n", rec.GameKind)
	fmt.Fprintf(&b, "- Score: %d\n", rec.FinalScore)
	fmt.Fprintf(&b, "- Accuracy: %.1f%%\n", rec.Accuracy*100)
	fmt.Fprintf(&b, "- Time spent: %d seconds\n", rec.TimeSpentSeconds)
	fmt.Fprintf(&b, "- Level reached: %d\n", rec.FinalLevel)
	fmt.Fprintf(&b, "- Difficulty: %s\n", rec.DifficultyTag)

	b.WriteString("\nPrevious games:\n")
	if len(recent) == 0 {
		b.WriteString("- none yet\n")
	}
	for _, r := range recent {
		fmt.Fprintf(&b, "- Score: %d, Accuracy: %.1f%%\n", r.FinalScore, r.Accuracy*100)
	}

	b.WriteString("\nIn three or four sentences: summarize how they did, name one strength, " +
		"give one tip for next time and end with a motivating line. Keep it simple and positive.")
	return b.String()
}
