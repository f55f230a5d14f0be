package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// GCSStore writes objects to a Google Cloud Storage bucket with public read URLs.
type GCSStore struct {
	client *storage.Client
	bucket string
}

func NewGCSStore(client *storage.Client, bucket string) *GCSStore {
	return &GCSStore{client: client, bucket: bucket}
}

func (s *GCSStore) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	if s.client == nil || s.bucket == "" {
		return "", errors.New("gcs not configured")
	}
	// cancelling before Close aborts the upload instead of committing a partial object
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	wc := s.client.Bucket(s.bucket).Object(key).NewWriter(wctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		cancel()
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return GCSPublicURL(s.bucket, key), nil
}

// GCSPublicURL builds a public URL for an object (assuming public read access)
func GCSPublicURL(bucket, key string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, key)
}
