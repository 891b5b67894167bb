// Package qr issues check-in tokens and renders them as QR codes.
package qr

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"applicantdesk/internal/domain"
)

// tokenBytes yields 16 hex characters.
const tokenBytes = 8

// DefaultImageSize is the PNG edge length in pixels.
const DefaultImageSize = 400

type tokenGenerator struct{}

// NewTokenGenerator returns a QRTokenGenerator backed by crypto/rand.
func NewTokenGenerator() domain.QRTokenGenerator {
	return tokenGenerator{}
}

func (tokenGenerator) NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

type encoder struct {
	size int
}

// NewEncoder returns a QREncoder producing size x size PNGs at medium error correction.
func NewEncoder(size int) domain.QREncoder {
	if size <= 0 {
		size = DefaultImageSize
	}
	return &encoder{size: size}
}

func (e *encoder) EncodePNG(payload string) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("%w: empty qr payload", domain.ErrInvalidInput)
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, e.size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

type inlineImageStore struct{}

// NewInlineImageStore returns a QRImageStore that embeds the PNG as a data URI.
// Used when no bucket is configured.
func NewInlineImageStore() domain.QRImageStore {
	return inlineImageStore{}
}

func (inlineImageStore) Put(ctx context.Context, token string, png []byte) (string, error) {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
