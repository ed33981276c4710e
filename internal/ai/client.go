// Package ai suggests idiom metadata through an OpenAI-compatible chat completion API.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
	"github.com/emilythestrangee/idiom-hub/backend/internal/observability"
)

const (
	systemPrompt = "You are an API that answers with plain JSON only."
	userPrompt   = `For the English idiom "%s", return JSON in exactly this format:
{
  "category": "string",
  "meaning": "string",
  "example": "string",
  "explanation": "string",
  "etymology": "string",
  "difficulty": "beginner|intermediate|advanced",
  "tags": ["string", "string"]
}
Return valid JSON only, with no commentary.`

	maxResponseBytes = 1 << 20
)

type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateIdiom asks the provider for metadata about title. Invalid titles are
// validation errors; every provider or parse failure is an upstream error.
func (c *Client) GenerateIdiom(ctx context.Context, title string) (*models.GeneratedIdiom, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, models.NewValidationError("Idiom title is required")
	}
	if n := utf8.RuneCountInString(title); n < 3 || n > 100 {
		return nil, models.NewValidationError("Title must be between 3 and 100 characters")
	}

	raw, err := c.complete(ctx, fmt.Sprintf(userPrompt, title))
	if err != nil {
		observability.AIRequestsTotal.WithLabelValues("upstream_error").Inc()
		return nil, models.NewUpstreamError("Failed to generate idiom data", err)
	}

	generated, err := parseGenerated(raw)
	if err != nil {
		observability.AIRequestsTotal.WithLabelValues("invalid_response").Inc()
		observability.Logger.WarnContext(ctx, "invalid AI response", "error", err, "raw", raw)
		return nil, models.NewUpstreamError("Invalid JSON returned from AI", err)
	}

	observability.AIRequestsTotal.WithLabelValues("success").Inc()
	return generated, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no content returned from AI")
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("no content returned from AI")
	}
	return content, nil
}

// stripFences removes a surrounding ``` or ```json markdown fence.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func parseGenerated(raw string) (*models.GeneratedIdiom, error) {
	var g models.GeneratedIdiom
	if err := json.Unmarshal([]byte(stripFences(raw)), &g); err != nil {
		return nil, err
	}
	if strings.TrimSpace(g.Meaning) == "" {
		return nil, fmt.Errorf("response has no meaning")
	}

	g.Difficulty = strings.ToLower(strings.TrimSpace(g.Difficulty))
	switch g.Difficulty {
	case "beginner", "intermediate", "advanced":
	default:
		g.Difficulty = "beginner"
	}
	if g.Tags == nil {
		g.Tags = []string{}
	}
	return &g, nil
}
