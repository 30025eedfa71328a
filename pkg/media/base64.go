package media

import (
	"encoding/base64"
	"strings"
)

// DecodeBase64 decodes a standard base64 image payload. A leading
// "data:<mime>;base64," prefix and embedded whitespace are tolerated.
func DecodeBase64(encoded string) ([]byte, error) {
	s := strings.TrimSpace(encoded)
	if strings.HasPrefix(s, "data:") {
		if idx := strings.Index(s, ","); idx != -1 {
			s = s[idx+1:]
		}
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)

	return base64.StdEncoding.DecodeString(s)
}

// EncodeBase64 is the inverse used for uploaded files.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Preview returns the first n characters of encoded followed by "...".
func Preview(encoded string, n int) string {
	if n >= 0 && len(encoded) > n {
		encoded = encoded[:n]
	}
	return encoded + "..."
}
