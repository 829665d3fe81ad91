// Package llm provides a small client for an OpenAI-compatible
// chat-completions endpoint. It backs two features: turning receipt
// images into expense drafts and generating narrative spending analysis.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 60 * time.Second

// ReceiptDraft is the structured guess extracted from a receipt image.
// It is only a draft: creating an expense from it goes through the same
// validation as manual entry.
type ReceiptDraft struct {
	Amount      int64  `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date"` // YYYY-MM-DD
}

// Client communicates with an OpenAI-compatible chat-completions API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates a new Client. baseURL is overridable for tests.
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"` // string, or []contentPart for vision requests
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// AnalyzeSpending asks the model for a narrative report over the given
// spending digest and returns the text verbatim.
func (c *Client) AnalyzeSpending(ctx context.Context, digest string) (string, error) {
	return c.complete(ctx, []chatMessage{
		{Role: "system", Content: "You are a personal finance assistant. Write a short, " +
			"concrete narrative analysis of the user's recent spending: notable categories, " +
			"trends, and one or two actionable suggestions."},
		{Role: "user", Content: digest},
	})
}

// SpendingTips asks the model for a handful of short saving tips for the
// given spending digest.
func (c *Client) SpendingTips(ctx context.Context, digest string) (string, error) {
	return c.complete(ctx, []chatMessage{
		{Role: "system", Content: "You are a personal finance assistant. Reply with 3 short, " +
			"practical money-saving tips tailored to the spending summary, one per line."},
		{Role: "user", Content: digest},
	})
}

// ExtractReceipt sends a receipt image (as a data URL) to the model and
// parses the structured expense guess from its reply.
func (c *Client) ExtractReceipt(ctx context.Context, imageDataURL string) (*ReceiptDraft, error) {
	text, err := c.complete(ctx, []chatMessage{
		{Role: "system", Content: "Extract the purchase from the receipt image. Respond with " +
			`only a JSON object: {"amount": <total in cents>, "category": <one of food, transport, ` +
			`shopping, entertainment, bills, health, education, travel, debt_payment, other>, ` +
			`"description": <merchant or summary>, "date": <YYYY-MM-DD>}.`},
		{Role: "user", Content: []contentPart{
			{Type: "image_url", ImageURL: &imageURL{URL: imageDataURL}},
		}},
	})
	if err != nil {
		return nil, err
	}

	var draft ReceiptDraft
	if err := json.Unmarshal([]byte(extractJSONObject(text)), &draft); err != nil {
		return nil, fmt.Errorf("parsing receipt draft: %w", err)
	}
	return &draft, nil
}

func (c *Client) complete(ctx context.Context, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("marshaling chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling chat completions: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completions: unexpected status %d", resp.StatusCode)
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("chat completions: empty response")
	}
	return result.Choices[0].Message.Content, nil
}

// extractJSONObject trims markdown fences and surrounding prose that
// models sometimes wrap around a JSON reply.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}
