package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Compile-time contract assertion.
var _ Store = (*S3Store)(nil)

// deleteBatchSize is the DeleteObjects per-request limit.
const deleteBatchSize = 1000

// S3Config holds construction parameters for the S3 driver. Static
// credentials are optional and fall back to the default chain.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional; MinIO or other compatible endpoint
	PathStyle       bool
	AccessKeyID     string
	SecretAccessKey string
}

// s3API is the subset of *s3.Client the driver calls.
type s3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// S3Store keeps one JSON object per key in a single bucket.
// DeleteRange lists then batch-deletes, so it is not atomic.
type S3Store struct {
	client s3API
	bucket string
}

// OpenS3 builds an S3 client from cfg.
func OpenS3(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newS3Store(client, cfg.Bucket), nil
}

func newS3Store(client s3API, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket}
}

// Driver returns DriverS3.
func (s *S3Store) Driver() Driver { return DriverS3 }

// Close is a no-op; the SDK client holds no resources that need release.
func (s *S3Store) Close() error { return nil }

// Get downloads and decodes one object.
func (s *S3Store) Get(ctx context.Context, key string) (*Record, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &key})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	rec, err := unmarshalRecord(data)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return &rec, nil
}

// Put uploads the record, overwriting any existing object.
func (s *S3Store) Put(ctx context.Context, key string, rec Record) error {
	payload, err := marshalRecord(rec)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// DeleteRange lists the prefix and deletes matches in batches. Keys already
// removed stay removed if a later batch fails.
func (s *S3Store) DeleteRange(ctx context.Context, prefix string) error {
	keys, err := s.list(ctx, prefix)
	if err != nil {
		return fmt.Errorf("delete range %s: %w", prefix, err)
	}
	for start := 0; start < len(keys); start += deleteBatchSize {
		end := min(start+deleteBatchSize, len(keys))
		objects := make([]types.ObjectIdentifier, 0, end-start)
		for _, key := range keys[start:end] {
			objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
		}
		out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: &s.bucket,
			Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return fmt.Errorf("delete range %s: %w", prefix, err)
		}
		if len(out.Errors) > 0 {
			first := out.Errors[0]
			return fmt.Errorf("delete range %s: %s: %s", prefix, aws.ToString(first.Key), aws.ToString(first.Message))
		}
	}
	return nil
}

// GetMany issues one GetObject per key.
func (s *S3Store) GetMany(ctx context.Context, keys []string) []*Record {
	return getEach(ctx, s, keys)
}

// list returns every key under prefix, following continuation tokens.
func (s *S3Store) list(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            &s.bucket,
			Prefix:            &prefix,
			ContinuationToken: token,
		})
		if err != nil {
			return nil, err
		}
		for _, obj := range out.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
		if out.IsTruncated != nil && *out.IsTruncated && out.NextContinuationToken != nil {
			token = out.NextContinuationToken
			continue
		}
		break
	}
	return keys, nil
}
