// File path: internal/backup/s3.go
package backup

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Uploader puts snapshot objects into one bucket.
type S3Uploader struct {
	client *s3.Client
	bucket string
}

// NewS3Uploader resolves AWS credentials from the environment and binds the
// uploader to cfg.Bucket.
func NewS3Uploader(ctx context.Context, cfg Config) (*S3Uploader, error) {
	cfg.applyDefaults()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3Uploader{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
	}, nil
}

// Upload implements Uploader.
func (u *S3Uploader) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}
