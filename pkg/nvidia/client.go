package nvidia

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"time"

	"personabot/pkg/pipeline"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const (
	DefaultBaseURL = "https://integrate.api.nvidia.com/v1"
	DefaultModel   = "meta/llama-3.2-90b-vision-instruct"
)

type ModelConfig struct {
	ID       string
	MaxToken int
}

// Client talks to any OpenAI-compatible chat completions endpoint that
// accepts image_url content parts. NVIDIA's hosted catalog is the default.
type Client struct {
	client      openai.Client
	model       ModelConfig
	temperature float64
	topP        float64
}

func NewClient(apiKey, baseURL string, model ModelConfig, temperature, topP float64, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model.ID == "" {
		model.ID = DefaultModel
	}
	if model.MaxToken <= 0 {
		model.MaxToken = 1024
	}

	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}

	log.Printf("NVIDIA client configured (model: %s)", model.ID)

	return &Client{
		client:      openai.NewClient(opts...),
		model:       model,
		temperature: temperature,
		topP:        topP,
	}
}

// Generate implements pipeline.Generator. All parts are sent as one user
// message; images travel as data URLs.
func (c *Client) Generate(ctx context.Context, parts []pipeline.Part) (string, error) {
	if len(parts) == 0 {
		return "", fmt.Errorf("no content parts to send")
	}

	contentParts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(parts))
	for _, p := range parts {
		if p.IsImage() {
			dataURL := fmt.Sprintf("data:%s;base64,%s", p.MimeType, base64.StdEncoding.EncodeToString(p.Image))
			contentParts = append(contentParts, openai.ChatCompletionContentPartUnionParam{
				OfImageURL: &openai.ChatCompletionContentPartImageParam{
					ImageURL: openai.ChatCompletionContentPartImageImageURLParam{
						URL: dataURL,
					},
				},
			})
			continue
		}
		contentParts = append(contentParts, openai.ChatCompletionContentPartUnionParam{
			OfText: &openai.ChatCompletionContentPartTextParam{Text: p.Text},
		})
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model.ID),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfArrayOfContentParts: contentParts,
				},
			}},
		},
		Temperature: openai.Float(c.temperature),
		TopP:        openai.Float(c.topP),
		MaxTokens:   openai.Int(int64(c.model.MaxToken)),
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("NVIDIA model %s error: %w", c.model.ID, err)
	}

	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model %s", c.model.ID)
	}

	log.Printf("NVIDIA model %s success (took %v, tokens: in=%d, out=%d)",
		c.model.ID, time.Since(start), resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
