// Package storage mirrors uploaded files to an S3-compatible bucket so
// receipts survive loss of the local uploads directory. Mirroring is
// best-effort: a failed upload is logged, never surfaced to the client.
package storage

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"desynflow-backend/internal/config"
)

type Mirror struct {
	client *s3.Client
	bucket string
}

// NewMirror builds the mirror client. Returns nil when the bucket is not
// configured; callers treat a nil mirror as disabled.
func NewMirror(cfg *config.Config) *Mirror {
	if cfg.Mirror.Bucket == "" || cfg.Mirror.Endpoint == "" {
		log.Printf("[Mirror] Not configured, file mirroring disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Mirror.AccessKey,
			cfg.Mirror.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Mirror.Region),
	)
	if err != nil {
		log.Printf("[Mirror] Failed to configure client: %v", err)
		return nil
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Mirror.Endpoint)
	})

	log.Printf("[Mirror] Mirroring uploads to bucket %s", cfg.Mirror.Bucket)
	return &Mirror{client: client, bucket: cfg.Mirror.Bucket}
}

// Put uploads the file at localPath under the given key. Safe on a nil
// receiver.
func (m *Mirror) Put(ctx context.Context, key, localPath, contentType string) {
	if m == nil {
		return
	}

	f, err := os.Open(localPath)
	if err != nil {
		log.Printf("[Mirror] Failed to open %s: %v", localPath, err)
		return
	}
	defer f.Close()

	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Printf("[Mirror] Failed to upload %s: %v", key, err)
		return
	}

	log.Printf("[Mirror] Uploaded %s", key)
}

// Fetch retrieves a mirrored object, used when the local copy is missing.
func (m *Mirror) Fetch(ctx context.Context, key string) ([]byte, error) {
	if m == nil {
		return nil, os.ErrNotExist
	}

	result, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer result.Body.Close()

	return io.ReadAll(result.Body)
}
