package pipeline

import (
	"context"

	"personabot/pkg/media"
)

// Part is one element of a multimodal prompt: either text or inline image bytes.
type Part struct {
	Text     string
	Image    []byte
	MimeType string
}

func TextPart(text string) Part {
	return Part{Text: text}
}

func ImagePart(data []byte, mimeType string) Part {
	return Part{Image: data, MimeType: mimeType}
}

// IsImage reports whether the part carries image data.
func (p Part) IsImage() bool {
	return len(p.Image) > 0
}

// Generator is a remote text/image-to-text model.
type Generator interface {
	Generate(ctx context.Context, parts []Part) (string, error)
}

// ImagePreparer normalizes raw upload bytes before they reach the model.
type ImagePreparer interface {
	Prepare(data []byte) (*media.Image, error)
}
