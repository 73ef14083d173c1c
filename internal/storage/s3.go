package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/vidkeeper/internal/common"
	"github.com/dmitrijs2005/vidkeeper/internal/models"
)

// S3API defines the subset of the S3 client used by S3Store, enabling test mocking.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// PresignAPI is the subset of s3.PresignClient used for media redirects.
type PresignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Options configures an S3-compatible backend (AWS or MinIO).
type S3Options struct {
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	PresignTTL   time.Duration
}

// S3Store keeps recordings in an S3-compatible object store. Paths have the
// form s3://bucket/key.
type S3Store struct {
	client     S3API
	presign    PresignAPI
	presignTTL time.Duration
}

// test seams
var (
	loadDefaultAWSConfig  = awsconfig.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// NewS3Store builds a store from AWS defaults plus opts. An empty
// BaseEndpoint targets AWS; a non-empty one targets MinIO or another
// S3-compatible service (path-style addressing). Static credentials are used
// when both keys are set, otherwise the default credential chain.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if opts.BaseEndpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
			o.UsePathStyle = true
		})
	}

	client := newS3ClientFromConfig(cfg, s3Opts...)
	return NewS3StoreWithClient(client, s3.NewPresignClient(client), opts.PresignTTL), nil
}

// NewS3StoreWithClient creates an S3Store with injected clients (for testing).
// presign may be nil, in which case PresignGet fails.
func NewS3StoreWithClient(client S3API, presign PresignAPI, ttl time.Duration) *S3Store {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &S3Store{client: client, presign: presign, presignTTL: ttl}
}

// ParseS3Path splits s3://bucket/key into its parts.
func ParseS3Path(path string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(path, S3Scheme)
	if !ok {
		return "", "", fmt.Errorf("not an s3 path: %q", path)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 path needs bucket and key: %q", path)
	}
	return bucket, key, nil
}

func (s *S3Store) Write(ctx context.Context, path string, data []byte) error {
	bucket, key, err := ParseS3Path(path)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(common.VideoMimeType),
		Metadata:      map[string]string{"name": models.NameFromPath(path)},
	})
	if err != nil {
		return fmt.Errorf("failed to upload recording to S3: %w", err)
	}
	return nil
}

func (s *S3Store) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	bucket, key, err := ParseS3Path(path)
	if err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("get %s: %w", path, errors.Join(common.ErrorNotFound, err))
		}
		return nil, fmt.Errorf("failed to get recording from S3: %w", err)
	}
	return out.Body, nil
}

// Remove deletes the object. S3 deletes are idempotent, so a missing key is
// not reported as an error.
func (s *S3Store) Remove(ctx context.Context, path string) error {
	bucket, key, err := ParseS3Path(path)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete recording from S3: %w", err)
	}
	return nil
}

func (s *S3Store) PresignGet(ctx context.Context, path string) (string, error) {
	if s.presign == nil {
		return "", errors.New("presigning not configured")
	}
	bucket, key, err := ParseS3Path(path)
	if err != nil {
		return "", err
	}
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return "", fmt.Errorf("error get presigned url: %w", err)
	}
	return req.URL, nil
}
