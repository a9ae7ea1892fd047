package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/amirhosseinghanipour/bearer/internal/application/ports"
)

// S3Config holds the settings for the avatar bucket. AccessKey and
// SecretKey are the MinIO root user/password when running against MinIO.
type S3Config struct {
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	// PublicBaseURL is the URL prefix stored on the user record,
	// e.g. "http://localhost:9000/avatars". Defaults to BaseEndpoint/Bucket.
	PublicBaseURL string
}

// S3AvatarStore uploads avatar images to an S3-compatible bucket.
type S3AvatarStore struct {
	client *s3.Client
	cfg    S3Config
}

func NewS3AvatarStore(ctx context.Context, cfg S3Config) (*S3AvatarStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})
	return &S3AvatarStore{client: client, cfg: cfg}, nil
}

// Upload stores the object under key and returns the public URL to persist.
func (s *S3AvatarStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	base := s.cfg.PublicBaseURL
	if base == "" {
		base = strings.TrimRight(s.cfg.BaseEndpoint, "/") + "/" + s.cfg.Bucket
	}
	return strings.TrimRight(base, "/") + "/" + key, nil
}

var _ ports.AvatarStore = (*S3AvatarStore)(nil)
