package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	DefaultModel   = "gemini-1.5-flash"
)

// Client calls the Gemini generateContent API.
type Client struct {
	apiKey string
	model  string
	client *http.Client
	apiURL string
}

// NewClient creates a Gemini client for model. A zero timeout means the
// request lives as long as its context.
func NewClient(apiKey, model string, timeout time.Duration) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{
			Timeout: timeout,
		},
		apiURL: fmt.Sprintf("%s/%s:generateContent", defaultBaseURL, model),
	}
}

// SetBaseURL points the client at another models endpoint, e.g. a proxy or
// a local test server.
func (c *Client) SetBaseURL(baseURL string) {
	c.apiURL = fmt.Sprintf("%s/%s:generateContent", strings.TrimRight(baseURL, "/"), c.model)
}

// Part is either text or inline binary data.
type Part struct {
	Text     string
	Data     []byte
	MimeType string
}

// APIError captures non-200 responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini API error (status %d): %s", e.StatusCode, e.Body)
}

// Request types for Gemini API
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *geminiFileData `json:"inline_data,omitempty"`
}

type geminiFileData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiTextPart struct {
	Text string `json:"text"`
}

type geminiCandidate struct {
	Content struct {
		Parts []geminiTextPart `json:"parts"`
	} `json:"content"`
	FinishReason string `json:"finishReason"`
}

type geminiResponse struct {
	Candidates     []geminiCandidate `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason,omitempty"`
	} `json:"promptFeedback,omitempty"`
}

// GenerateContent sends parts as a single user turn and returns the trimmed
// text of the first candidate.
func (c *Client) GenerateContent(ctx context.Context, parts []Part) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("gemini API key not configured")
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no content parts to send")
	}

	reqParts := make([]geminiPart, 0, len(parts))
	for _, p := range parts {
		if len(p.Data) > 0 {
			reqParts = append(reqParts, geminiPart{
				InlineData: &geminiFileData{
					MimeType: p.MimeType,
					Data:     base64.StdEncoding.EncodeToString(p.Data),
				},
			})
			continue
		}
		reqParts = append(reqParts, geminiPart{Text: p.Text})
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: reqParts}},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	// Never put the key in the URL; transport errors quote it.
	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		bodyStr := string(bodyBytes)
		if len(bodyStr) > 200 {
			bodyStr = bodyStr[:200] + "...(truncated)"
		}
		return "", &APIError{StatusCode: resp.StatusCode, Body: bodyStr}
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(bodyBytes, &geminiResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if geminiResp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("content blocked: %s", geminiResp.PromptFeedback.BlockReason)
	}

	if len(geminiResp.Candidates) == 0 {
		return "", fmt.Errorf("no response candidates returned")
	}

	candidate := geminiResp.Candidates[0]
	if candidate.FinishReason == "SAFETY" {
		return "", fmt.Errorf("response blocked by safety filters")
	}

	if len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content parts in response")
	}

	var sb strings.Builder
	for _, p := range candidate.Content.Parts {
		sb.WriteString(p.Text)
	}

	return strings.TrimSpace(sb.String()), nil
}
