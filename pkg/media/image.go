package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Formats the vision models accept as-is. Anything else is re-encoded to PNG.
var passthroughMimes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
}

type ImageProcessor struct {
	opts CompressionOptions
}

func NewImageProcessor(opts CompressionOptions) *ImageProcessor {
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = DefaultCompressionOptions().Quality
	}
	if opts.MaxPixels <= 0 {
		opts.MaxPixels = DefaultCompressionOptions().MaxPixels
	}
	return &ImageProcessor{opts: opts}
}

// Prepare checks the declared size against MaxPixels, decodes data, downscales
// it when it exceeds MaxDimension and returns bytes in a format the model
// accepts. Undecodable input is an error.
func (p *ImageProcessor) Prepare(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("decode image: empty input")
	}

	// The header alone is enough to refuse images that would not fit in memory.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > int64(p.opts.MaxPixels) {
		return nil, fmt.Errorf("decode image: %dx%d exceeds the %d pixel limit", cfg.Width, cfg.Height, p.opts.MaxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	mime := mimetype.Detect(data).String()
	bounds := img.Bounds()
	out := &Image{
		Data:     data,
		MimeType: mime,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Format:   format,
	}

	resized, changed := p.resizeImage(img)
	if !changed && passthroughMimes[mime] {
		return out, nil
	}

	encoded, mime, err := p.encodeImage(resized, format)
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	out.Data = encoded
	out.MimeType = mime
	out.Width = resized.Bounds().Dx()
	out.Height = resized.Bounds().Dy()
	return out, nil
}

func (p *ImageProcessor) resizeImage(img image.Image) (image.Image, bool) {
	max := p.opts.MaxDimension
	if max <= 0 {
		return img, false
	}

	bounds := img.Bounds()
	if bounds.Dx() <= max && bounds.Dy() <= max {
		return img, false
	}

	return imaging.Fit(img, max, max, imaging.Lanczos), true
}

func (p *ImageProcessor) encodeImage(img image.Image, format string) ([]byte, string, error) {
	var buf bytes.Buffer

	switch format {
	case "jpeg", "jpg":
		err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.opts.Quality})
		return buf.Bytes(), "image/jpeg", err

	default:
		encoder := png.Encoder{CompressionLevel: png.BestCompression}
		err := encoder.Encode(&buf, img)
		return buf.Bytes(), "image/png", err
	}
}
