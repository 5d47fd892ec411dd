package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"volunteer-match-server/config"
	"volunteer-match-server/services"
)

var ErrNotConfigured = errors.New("storage backend not configured")

// putObjectAPI is the slice of the S3 client the archiver needs.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var _ services.ReportArchiver = (*S3Archiver)(nil)

// S3Archiver stores generated reports as JSON objects in a bucket.
type S3Archiver struct {
	client putObjectAPI
	bucket string
}

// NewS3Archiver builds an archiver from the reports config. With no bucket
// configured it returns a disabled archiver rather than an error.
func NewS3Archiver(ctx context.Context, cfg config.ReportsConfig) (*S3Archiver, error) {
	if cfg.S3Bucket == "" {
		return &S3Archiver{}, nil
	}
	region := cfg.AWSRegion
	if region == "" {
		region = "eu-central-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3Archiver{client: s3.NewFromConfig(awsCfg), bucket: cfg.S3Bucket}, nil
}

func (a *S3Archiver) Enabled() bool { return a != nil && a.client != nil && a.bucket != "" }

// ArchiveJSON uploads body under key and returns its s3:// location.
func (a *S3Archiver) ArchiveJSON(ctx context.Context, key string, body []byte) (string, error) {
	if !a.Enabled() {
		return "", ErrNotConfigured
	}
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", a.bucket, key, err)
	}
	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}
