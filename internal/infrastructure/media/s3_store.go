package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store writes objects to an S3 bucket. Returned URLs never expire: they
// point at the bucket itself (public read) or at publicBaseURL, typically a
// CDN in front of a private bucket.
type S3Store struct {
	uploader      *manager.Uploader
	bucket        string
	region        string
	publicBaseURL string
}

func NewS3Store(ctx context.Context, region, bucket, publicBaseURL string) (*S3Store, error) {
	if bucket == "" {
		return nil, errors.New("s3 bucket not configured")
	}
	if publicBaseURL != "" {
		u, err := url.Parse(publicBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid s3 public base url %q", publicBaseURL)
		}
	}
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &S3Store{
		uploader:      manager.NewUploader(s3.NewFromConfig(cfg)),
		bucket:        bucket,
		region:        region,
		publicBaseURL: publicBaseURL,
	}, nil
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return S3ObjectURL(s.publicBaseURL, s.bucket, s.region, key), nil
}

// S3ObjectURL builds the permanent URL of an object: base + key when a public
// base is set, the virtual-hosted bucket URL otherwise.
func S3ObjectURL(base, bucket, region, key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	path := strings.Join(parts, "/")
	if base != "" {
		return strings.TrimRight(base, "/") + "/" + path
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, path)
}
