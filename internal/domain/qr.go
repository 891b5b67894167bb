package domain

import (
	"context"
	"encoding/json"
	"strings"
)

// QRPayload is the JSON object encoded in a check-in QR code.
type QRPayload struct {
	Token     string `json:"t"`
	EventSlug string `json:"e,omitempty"`
}

// QRTokenGenerator produces new attendee check-in tokens.
type QRTokenGenerator interface {
	NewToken() (string, error)
}

// QREncoder renders a payload string as a PNG QR code.
type QREncoder interface {
	EncodePNG(payload string) ([]byte, error)
}

// QRImageStore makes a rendered QR image reachable from an email and returns its URL.
type QRImageStore interface {
	Put(ctx context.Context, token string, png []byte) (url string, err error)
}

// ParseQRPayload extracts the check-in token from scanned QR text. Scanners
// hand over either the JSON payload or a bare token; text that is not valid
// JSON is treated as a bare token.
func ParseQRPayload(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "{") {
		return raw
	}
	var p struct {
		T     string `json:"t"`
		Token string `json:"token"`
	}
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return raw
	}
	if p.T != "" {
		return strings.TrimSpace(p.T)
	}
	return strings.TrimSpace(p.Token)
}
