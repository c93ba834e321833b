package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3Storage implements Storage for S3 and S3-compatible stores
// (Cloudflare R2 uses the same API, distinguished only by the endpoint).
type S3Storage struct {
	client     *s3.S3
	uploader   *s3manager.Uploader
	bucket     string
	baseURL    string
	publicRead bool
}

func NewS3Storage(cfg Config) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required for s3 storage")
	}

	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.Region == "" {
		awsConfig.Region = aws.String("auto")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create aws session: %w", err)
	}

	return &S3Storage{
		client:     s3.New(sess),
		uploader:   s3manager.NewUploader(sess),
		bucket:     cfg.Bucket,
		baseURL:    cfg.BaseURL,
		publicRead: cfg.PublicRead,
	}, nil
}

func (s *S3Storage) Save(ctx context.Context, key string, reader io.Reader, contentType string) error {
	input := &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        reader,
		ContentType: aws.String(contentType),
	}
	if s.publicRead {
		input.ACL = aws.String("public-read")
	}

	if _, err := s.uploader.UploadWithContext(ctx, input); err != nil {
		return fmt.Errorf("failed to upload to s3: %w", err)
	}
	return nil
}

func (s *S3Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return out.Body, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *S3Storage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == "NotFound" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *S3Storage) GetURL(ctx context.Context, key string) (string, error) {
	if s.baseURL != "" {
		return strings.TrimSuffix(s.baseURL, "/") + "/" + key, nil
	}
	region := aws.StringValue(s.client.Config.Region)
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, region, key), nil
}
