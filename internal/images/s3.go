package images

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/mikimauro/scanbiz/internal/netx"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

const (
	uploadExpiry = 15 * time.Minute
	maxURLExpiry = 7 * 24 * time.Hour
)

// S3Config points at an S3-compatible bucket (MinIO in development).
type S3Config struct {
	Region       string
	RootUser     string
	RootPassword string
	BaseEndpoint string
	Bucket       string

	// URLExpiry is the lifetime of the returned GET URL. SigV4 caps it at
	// seven days, which is also the default.
	URLExpiry time.Duration
}

// S3Store uploads images with a presigned PutObject request and returns a
// presigned GET URL as the reference.
type S3Store struct {
	cfg        S3Config
	presign    *s3.PresignClient
	httpClient *http.Client
	now        func() time.Time
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.URLExpiry <= 0 || cfg.URLExpiry > maxURLExpiry {
		cfg.URLExpiry = maxURLExpiry
	}

	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.RootUser,
			cfg.RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		// MinIO serves buckets on the path, not on a subdomain
		o.UsePathStyle = true
	})

	return &S3Store{
		cfg:        cfg,
		presign:    newS3PresignClient(client),
		httpClient: &http.Client{Timeout: time.Minute},
		now:        time.Now,
	}, nil
}

func (s *S3Store) Put(ctx context.Context, name string, data []byte) (string, error) {
	bucket := s.cfg.Bucket
	key := objectKey(s.now(), name)
	contentType := ContentType(name)

	put, err := presignPutObject(s.presign, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(uploadExpiry))
	if err != nil {
		return "", fmt.Errorf("presign put %s: %w", key, err)
	}

	if err := netx.PutPresigned(ctx, s.httpClient, put.URL, contentType, data); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	get, err := presignGetObject(s.presign, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.cfg.URLExpiry))
	if err != nil {
		return "", fmt.Errorf("presign get %s: %w", key, err)
	}

	return get.URL, nil
}
