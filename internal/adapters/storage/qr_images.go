// Package storage hosts rendered QR images so decision emails can link to them.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"applicantdesk/internal/domain"
)

const qrKeyPrefix = "qr/"

// s3API is the subset of the S3 client the image store uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3ImageStore struct {
	client  s3API
	bucket  string
	baseURL string
}

// NewS3ImageStore uploads QR PNGs to bucket under qr/<token>.png. Returned URLs
// are built from publicBaseURL, or the virtual-hosted bucket URL when it is empty.
func NewS3ImageStore(client *s3.Client, bucket, region, publicBaseURL string) domain.QRImageStore {
	return newS3ImageStore(client, bucket, region, publicBaseURL)
}

func newS3ImageStore(client s3API, bucket, region, publicBaseURL string) *s3ImageStore {
	base := strings.TrimRight(publicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &s3ImageStore{client: client, bucket: bucket, baseURL: base}
}

func (s *s3ImageStore) Put(ctx context.Context, token string, png []byte) (string, error) {
	if token == "" {
		return "", fmt.Errorf("%w: empty qr token", domain.ErrInvalidInput)
	}
	key := qrKeyPrefix + token + ".png"
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(png),
		ContentType:  aws.String("image/png"),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload qr image to bucket '%s': %w", s.bucket, err)
	}
	return s.baseURL + "/" + key, nil
}
