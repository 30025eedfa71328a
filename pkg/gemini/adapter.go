package gemini

import (
	"context"
	"time"

	"personabot/pkg/pipeline"
)

// Adapter wraps Client to implement pipeline.Generator
type Adapter struct {
	client *Client
}

// NewAdapter creates an adapter that implements pipeline.Generator
func NewAdapter(apiKey, model string, timeout time.Duration) *Adapter {
	return &Adapter{
		client: NewClient(apiKey, model, timeout),
	}
}

// NewAdapterWithClient wraps an already configured client
func NewAdapterWithClient(client *Client) *Adapter {
	return &Adapter{client: client}
}

// Generate implements pipeline.Generator
func (a *Adapter) Generate(ctx context.Context, parts []pipeline.Part) (string, error) {
	converted := make([]Part, len(parts))
	for i, p := range parts {
		converted[i] = Part{Text: p.Text, Data: p.Image, MimeType: p.MimeType}
	}
	return a.client.GenerateContent(ctx, converted)
}
