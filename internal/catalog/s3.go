package catalog

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used by S3Source.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads the catalog from a single object in an S3-compatible bucket.
type S3Source struct {
	client S3API
	bucket string
	key    string
}

// NewS3Source creates an S3Source over an existing client.
func NewS3Source(client S3API, bucket, key string) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key}
}

// Environment read by NewDefaultS3Source, in addition to the standard AWS chain:
//
//	ROUTINE_S3_REGION      region (default us-east-1)
//	ROUTINE_S3_ENDPOINT    custom endpoint, e.g. MinIO
//	ROUTINE_S3_PATH_STYLE  true to use path-style addressing
//	ROUTINE_S3_ACCESS_KEY_ID / ROUTINE_S3_SECRET_ACCESS_KEY
//	                       static credentials instead of the default chain

// NewDefaultS3Source builds a client from the default AWS configuration chain.
func NewDefaultS3Source(ctx context.Context, bucket, key string) (*S3Source, error) {
	region := os.Getenv("ROUTINE_S3_REGION")
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if id, secret := os.Getenv("ROUTINE_S3_ACCESS_KEY_ID"), os.Getenv("ROUTINE_S3_SECRET_ACCESS_KEY"); id != "" && secret != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(id, secret, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	endpoint := os.Getenv("ROUTINE_S3_ENDPOINT")
	pathStyle := strings.EqualFold(os.Getenv("ROUTINE_S3_PATH_STYLE"), "true")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if pathStyle {
			o.UsePathStyle = true
		}
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return NewS3Source(client, bucket, key), nil
}

// Name returns the s3:// URL of the object.
func (s *S3Source) Name() string {
	return "s3://" + s.bucket + "/" + s.key
}

// Format is chosen from the object key extension.
func (s *S3Source) Format() Format {
	return FormatForPath(s.key)
}

// Fetch downloads the object.
func (s *S3Source) Fetch(ctx context.Context) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return data, nil
}

func parseS3URL(location string) (bucket, key string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 url %q: %w", location, err)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 url must be s3://bucket/key, got %q", location)
	}
	return bucket, key, nil
}
