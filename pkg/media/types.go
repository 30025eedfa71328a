package media

// Image is a decoded-and-validated image ready to be sent to a model.
type Image struct {
	Data     []byte `json:"-"`
	MimeType string `json:"mime_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
}

type CompressionOptions struct {
	Quality      int `json:"quality"`
	MaxDimension int `json:"max_dimension"`
	// MaxPixels caps width*height before a full decode is attempted.
	MaxPixels int `json:"max_pixels"`
}

func DefaultCompressionOptions() CompressionOptions {
	return CompressionOptions{
		Quality:      85,
		MaxDimension: 1536,
		MaxPixels:    50_000_000,
	}
}
