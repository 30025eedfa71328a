package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"personabot/pkg/persona"
)

const describePrompt = "You are an expert image analyst. Describe what you see in this image in a meaningful, detailed way. " +
	"If you can reasonably guess the person's cultural or national background (such as Indian or Chinese) " +
	"based on appearance, clothing, or background elements, include that. If it's unclear, say so."

const summarizePrompt = "You are an AI vision assistant. Summarize this image description into something meaningful."

const respondInstruction = "\nBased on the image content, respond in character. Keep it conversational and engaging (2-3 sentences)."

// Request is one image plus the persona that should answer it.
type Request struct {
	Image     []byte
	PersonaID string
}

// Result holds every text artifact the pipeline produced.
type Result struct {
	Description string
	Summary     string
	Reply       string
	PersonaUsed string
}

// Pipeline runs describe -> summarize -> respond. Each stage needs the text
// of the previous one, so the calls are strictly sequential.
type Pipeline struct {
	generator Generator
	images    ImagePreparer
	personas  *persona.Registry
}

func New(generator Generator, images ImagePreparer, personas *persona.Registry) *Pipeline {
	return &Pipeline{
		generator: generator,
		images:    images,
		personas:  personas,
	}
}

// Run executes all three stages. Any failure aborts the run; there is no
// partial result.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	description, err := p.Describe(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	summary, err := p.Summarize(ctx, description)
	if err != nil {
		return nil, err
	}

	reply, used, err := p.Respond(ctx, summary, req.PersonaID)
	if err != nil {
		return nil, err
	}

	log.Printf("Pipeline finished for persona %s (took %v)", used, time.Since(start))

	return &Result{
		Description: description,
		Summary:     summary,
		Reply:       reply,
		PersonaUsed: used,
	}, nil
}

// Describe asks the vision model for a detailed description of the image.
func (p *Pipeline) Describe(ctx context.Context, imageData []byte) (string, error) {
	img, err := p.images.Prepare(imageData)
	if err != nil {
		return "", fmt.Errorf("describe image: %w", err)
	}

	log.Printf("Describing image (%s, %dx%d, %d bytes)", img.MimeType, img.Width, img.Height, len(img.Data))

	text, err := p.generator.Generate(ctx, []Part{
		TextPart(describePrompt),
		ImagePart(img.Data, img.MimeType),
	})
	if err != nil {
		return "", fmt.Errorf("describe image: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Summarize condenses a description into a short meaningful summary.
func (p *Pipeline) Summarize(ctx context.Context, description string) (string, error) {
	text, err := p.generator.Generate(ctx, []Part{
		TextPart(summarizePrompt),
		TextPart(description),
	})
	if err != nil {
		return "", fmt.Errorf("summarize description: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Respond replies to the summary in the voice of personaID. Unknown ids fall
// back to the registry default; the returned id is the persona that answered.
func (p *Pipeline) Respond(ctx context.Context, summary, personaID string) (string, string, error) {
	selected, ok := p.personas.Lookup(personaID)
	if !ok {
		log.Printf("Persona %q not found, falling back to %s", personaID, selected.ID)
	}

	text, err := p.generator.Generate(ctx, []Part{
		TextPart(selected.Prompt),
		TextPart("\nImage analysis: " + summary),
		TextPart(respondInstruction),
	})
	if err != nil {
		return "", "", fmt.Errorf("respond as %s: %w", selected.ID, err)
	}
	return strings.TrimSpace(text), selected.ID, nil
}
