// Package storage persists rendered report snapshots to S3 so the
// downstream email and web renderers can pick them up.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Config contains minimal configuration for creating an S3 client.
// Values are optional and fall back to the standard AWS config chain.
type S3Config struct {
	// Region to use for requests, e.g. "us-east-1". If empty, AWS defaults apply.
	Region string
	// Profile selects a named shared config/credentials profile.
	Profile string
	// UsePathStyle forces path-style addressing (for S3-compatible providers).
	UsePathStyle bool
}

// SnapshotStore writes and reads dated report snapshots in a bucket.
type SnapshotStore struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewSnapshotStore creates a snapshot store against the given bucket,
// using the default AWS configuration chain with optional overrides.
func NewSnapshotStore(ctx context.Context, cfg S3Config, bucket, prefix string) (*SnapshotStore, error) {
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	c := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})

	if prefix != "" {
		prefix = strings.Trim(prefix, "/") + "/"
	}
	return &SnapshotStore{client: c, bucket: bucket, prefix: prefix}, nil
}

// SnapshotKey names a snapshot object for the given cycle time.
func (s *SnapshotStore) SnapshotKey(at time.Time) string {
	return fmt.Sprintf("%ssnapshots/%s/%s.txt",
		s.prefix, at.UTC().Format("2006-01-02"), at.UTC().Format("150405"))
}

// PutSnapshot uploads a rendered snapshot for the given cycle time and
// returns the object key.
func (s *SnapshotStore) PutSnapshot(ctx context.Context, at time.Time, rendered string) (string, error) {
	key := s.SnapshotKey(at)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         strings.NewReader(rendered),
		ContentType:  aws.String("text/plain; charset=utf-8"),
		CacheControl: aws.String("public, max-age=300"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot %s: %w", key, err)
	}
	return key, nil
}

// GetSnapshot fetches a snapshot body. Caller must Close it.
func (s *SnapshotStore) GetSnapshot(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

// SnapshotExists returns true if the object exists; false on 404/NotFound.
func (s *SnapshotStore) SnapshotExists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}

	var respErr *http.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return false, nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
		return false, nil
	}
	return false, err
}

// ListSnapshots lists snapshot keys for a given day, newest pagination
// handled by the caller via continuationToken.
func (s *SnapshotStore) ListSnapshots(ctx context.Context, day time.Time, maxKeys int32, continuationToken *string) (*s3.ListObjectsV2Output, error) {
	prefix := fmt.Sprintf("%ssnapshots/%s/", s.prefix, day.UTC().Format("2006-01-02"))
	return s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:            aws.String(s.bucket),
		Prefix:            aws.String(prefix),
		MaxKeys:           aws.Int32(maxKeys),
		ContinuationToken: continuationToken,
	})
}
