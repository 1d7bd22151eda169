package s3

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jwalitptl/caretrack/internal/gateway"
)

// Client is the part of the S3 API the storage needs (allows mocking in tests)
type Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

type Config struct {
	Bucket string
	Region string
	// Prefix is prepended to every object key
	Prefix string
	// PublicBaseURL serves stored objects, usually a CDN in front of the bucket
	PublicBaseURL string
}

// Storage keeps identification documents in one S3 bucket. The gateway bucket id becomes
// a key prefix so several logical buckets can share it.
type Storage struct {
	client  Client
	bucket  string
	prefix  string
	baseURL string
}

func New(client Client, cfg Config) (*Storage, error) {
	if client == nil || cfg.Bucket == "" {
		return nil, errors.New("s3 storage requires a client and a bucket")
	}
	return &Storage{
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  strings.Trim(cfg.Prefix, "/"),
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// NewFromEnvironment loads AWS credentials the standard way and builds the storage
func NewFromEnvironment(ctx context.Context, cfg Config) (*Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return New(s3.NewFromConfig(awsCfg), cfg)
}

func (s *Storage) key(bucketID, fileID string) string {
	return path.Join(s.prefix, bucketID, fileID)
}

func (s *Storage) CreateFile(ctx context.Context, bucketID, fileID string, file gateway.InputFile) (*gateway.File, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(bucketID, fileID)),
		Body:        file.Reader,
		IfNoneMatch: aws.String("*"),
		Metadata:    map[string]string{"filename": file.Name},
	}
	if file.ContentType != "" {
		input.ContentType = aws.String(file.ContentType)
	}
	if file.Size > 0 {
		input.ContentLength = aws.Int64(file.Size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", fileID, err)
	}

	return &gateway.File{
		ID:        fileID,
		BucketID:  bucketID,
		Name:      file.Name,
		MimeType:  file.ContentType,
		SizeBytes: file.Size,
	}, nil
}

func (s *Storage) FileViewURL(bucketID, fileID string) string {
	return s.baseURL + "/" + s.key(bucketID, fileID)
}

func (s *Storage) Ping(ctx context.Context) error {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("s3 bucket %s unavailable: %w", s.bucket, err)
	}
	return nil
}
