// Package archive ships generated shift reports to an S3-compatible bucket
// so the plant office keeps copies outside the terminal machine.
package archive

import (
	"bytes"
	"context"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"qc-backend/internal/config"
)

type Uploader struct {
	client *s3.Client
	bucket string
}

// NewUploader builds an S3 client for the configured archive target.
// Returns nil (archiving disabled) when the target is not configured or the
// client cannot be built.
func NewUploader(cfg *config.Config) *Uploader {
	if !cfg.Archive.Enabled || cfg.Archive.Bucket == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Archive.AccessKey,
			cfg.Archive.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Archive.Region),
	)
	if err != nil {
		log.Printf("[Archive] Failed to configure S3 client: %v", err)
		return nil
	}

	endpoint := cfg.Archive.Endpoint
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &Uploader{client: client, bucket: cfg.Archive.Bucket}
}

// Upload stores one object. Best-effort: report download must succeed even
// when the archive bucket is down, so callers only log the returned error.
func (u *Uploader) Upload(ctx context.Context, key, contentType string, body []byte) error {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	return err
}
