package s3

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrNotConfigured is returned by FromEnv when AWS_BUCKET is unset.
var ErrNotConfigured = errors.New("s3: not configured")

type S3Client struct {
	Client    *s3.Client
	Presigner *s3.PresignClient
	Bucket    string
	TTL       time.Duration
}

// FromEnv initializes an S3-compatible client (AWS, R2, MinIO) from
// AWS_ENDPOINT, AWS_REGION, AWS_BUCKET and static credentials.
func FromEnv(ctx context.Context) (*S3Client, error) {
	bucket := strings.TrimSpace(os.Getenv("AWS_BUCKET"))
	if bucket == "" {
		return nil, ErrNotConfigured
	}
	endpoint := strings.TrimSpace(os.Getenv("AWS_ENDPOINT"))
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "auto"
	}

	creds := credentials.NewStaticCredentialsProvider(
		os.Getenv("AWS_ACCESS_KEY_ID"),
		os.Getenv("AWS_SECRET_ACCESS_KEY"),
		"",
	)

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = os.Getenv("AWS_PATH_STYLE") == "true"
	})

	return &S3Client{
		Client:    client,
		Presigner: s3.NewPresignClient(client),
		Bucket:    bucket,
		TTL:       15 * time.Minute,
	}, nil
}

// PresignGet creates a presigned GET URL valid for s.TTL.
func (s *S3Client) PresignGet(ctx context.Context, objectKey string) (string, error) {
	req, err := s.Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(objectKey),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.TTL
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign download: %w", err)
	}
	return req.URL, nil
}
