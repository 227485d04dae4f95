package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// maxFetchBytes bounds objects read into memory (wordlists).
const maxFetchBytes = 8 << 20

// FetchObject reads a whole object, failing above maxFetchBytes.
func (s *S3Client) FetchObject(ctx context.Context, objectKey string) ([]byte, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return nil, fmt.Errorf("s3: get object %s: %w", objectKey, err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(io.LimitReader(out.Body, maxFetchBytes+1))
	if err != nil {
		return nil, fmt.Errorf("s3: read object %s: %w", objectKey, err)
	}
	if len(b) > maxFetchBytes {
		return nil, fmt.Errorf("s3: object %s exceeds %d bytes", objectKey, maxFetchBytes)
	}
	return b, nil
}

// PutJSON marshals v and stores it under objectKey.
func (s *S3Client) PutJSON(ctx context.Context, objectKey string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("s3: encode %s: %w", objectKey, err)
	}
	_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.Bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf("s3: put object %s: %w", objectKey, err)
	}
	return nil
}

// DeleteObject deletes an object from the bucket (used for cleanup).
func (s *S3Client) DeleteObject(ctx context.Context, objectKey string) error {
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("s3: delete object %s: %w", objectKey, err)
	}
	return nil
}
