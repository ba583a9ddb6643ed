package assets

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config selects the bucket design uploads land in. Any S3-compatible
// store works; PathStyle is required for most self-hosted ones.
type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	CustomDomain    string
	PathStyle       bool
}

func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// Uploader stores design assets in S3.
type Uploader struct {
	client *s3.Client
	cfg    S3Config
}

func NewUploader(cfg S3Config) *Uploader {
	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: cfg.PathStyle,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	}
	if opts.Region == "" {
		opts.Region = "auto"
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(strings.TrimRight(cfg.Endpoint, "/"))
	}
	return &Uploader{client: s3.New(opts), cfg: cfg}
}

// Upload writes one object and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %q: %w", key, err)
	}
	return u.PublicURL(key), nil
}

// Delete removes an object; missing keys are not an error.
func (u *Uploader) Delete(ctx context.Context, key string) error {
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.cfg.Bucket),
		Key:    aws.String(key),
	})
	return err
}

// PublicURL resolves the browser-facing URL for an object key.
func (u *Uploader) PublicURL(key string) string {
	if u.cfg.CustomDomain != "" {
		return strings.TrimRight(u.cfg.CustomDomain, "/") + "/" + key
	}
	endpoint := strings.TrimRight(u.cfg.Endpoint, "/")
	if endpoint == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.cfg.Bucket, u.cfg.Region, key)
	}
	if u.cfg.PathStyle {
		return fmt.Sprintf("%s/%s/%s", endpoint, u.cfg.Bucket, key)
	}
	scheme, host, found := strings.Cut(endpoint, "://")
	if !found {
		return fmt.Sprintf("%s/%s/%s", endpoint, u.cfg.Bucket, key)
	}
	return fmt.Sprintf("%s://%s.%s/%s", scheme, u.cfg.Bucket, host, key)
}
