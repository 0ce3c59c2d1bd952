package filestorage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/yigit/elearning/internal/pkg/logger"
)

// S3Config holds the bucket settings for S3Storage
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, for S3-compatible services
	AccessKey string
	SecretKey string
	// BaseURL is the public prefix objects are served from; defaults to Endpoint/Bucket
	BaseURL string
}

// S3API is the subset of the S3 client used here
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage stores uploads as public-read objects in one bucket
type S3Storage struct {
	client  S3API
	bucket  string
	baseURL string
}

// NewS3Storage builds an S3 client from static credentials
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, awsconfig.WithEndpointResolver(aws.EndpointResolverFunc(func(service, region string) (aws.Endpoint, error) {
			return aws.Endpoint{URL: cfg.Endpoint}, nil
		})))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	baseURL := cfg.BaseURL
	if baseURL == "" {
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", cfg.Region)
		}
		baseURL = strings.TrimRight(endpoint, "/") + "/" + cfg.Bucket
	}

	return NewS3StorageWithClient(client, cfg.Bucket, baseURL), nil
}

// NewS3StorageWithClient wraps an existing client
func NewS3StorageWithClient(client S3API, bucket, baseURL string) *S3Storage {
	return &S3Storage{client: client, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *S3Storage) SaveFileWithPath(ctx context.Context, fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	key := path.Join(cleanSubPath(subPath), uuid.New().String()+strings.ToLower(filepath.Ext(fileHeader.Filename)))
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentType:   aws.String(contentType),
		ACL:           types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Failed to upload object")
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("key", key).Msg("Object uploaded")
	return s.baseURL + "/" + key, nil
}

func (s *S3Storage) DeleteFile(ctx context.Context, fileURL string) error {
	key := strings.TrimPrefix(strings.TrimPrefix(fileURL, s.baseURL), "/")
	if key == "" {
		return fmt.Errorf("invalid file path: %s", fileURL)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Failed to delete object")
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
