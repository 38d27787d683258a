package s3

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrymomot/contactcard/core/storage"
)

// URLScheme prefixes locations served by this package.
const URLScheme = "s3://"

// Compile-time check that S3Storage implements storage.Reader interface
var _ storage.Reader = (*S3Storage)(nil)

// S3Client defines the interface for S3 operations used by S3Storage.
type S3Client interface {
	GetObject(ctx context.Context, params *s3aws.GetObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error)
}

// S3Storage reads objects addressed as s3://bucket/key from Amazon S3 and
// S3-compatible services.
type S3Storage struct {
	client      S3Client
	bucket      string        // used when a location names no bucket
	maxSize     int64         // objects larger than this are rejected
	readTimeout time.Duration // optional per-read timeout
}

// Config contains configuration for S3 storage.
type Config struct {
	Bucket         string `env:"S3_BUCKET"`
	Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	Endpoint       string `env:"S3_ENDPOINT"`                            // For S3-compatible services like MinIO, Wasabi
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"` // Required for MinIO and some S3-compatible services
}

// Option defines a function that configures S3Storage.
type Option func(*options)

type options struct {
	httpClient      *http.Client
	s3Client        S3Client
	s3ConfigOptions []func(*config.LoadOptions) error
	s3ClientOptions []func(*s3aws.Options)
	readTimeout     time.Duration
	maxSize         int64
}

// WithS3Client sets a custom pre-configured S3 client.
// Primarily used for testing with mocks.
func WithS3Client(client S3Client) Option {
	return func(o *options) {
		o.s3Client = client
	}
}

// WithHTTPClient sets a custom HTTP client for S3 requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithS3ConfigOption adds a custom AWS config option.
func WithS3ConfigOption(option func(*config.LoadOptions) error) Option {
	return func(o *options) {
		o.s3ConfigOptions = append(o.s3ConfigOptions, option)
	}
}

// WithS3ClientOption adds a custom S3 client option.
func WithS3ClientOption(option func(*s3aws.Options)) Option {
	return func(o *options) {
		o.s3ClientOptions = append(o.s3ClientOptions, option)
	}
}

// WithReadTimeout bounds each read. Without it the caller's context deadline applies.
func WithReadTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.readTimeout = timeout
	}
}

// WithMaxSize caps the size of objects read into memory.
func WithMaxSize(n int64) Option {
	return func(o *options) {
		o.maxSize = n
	}
}

// New creates a new S3 storage instance.
func New(ctx context.Context, cfg Config, opts ...Option) (*S3Storage, error) {
	if cfg.Region == "" {
		return nil, storage.ErrInvalidConfig
	}

	o := &options{maxSize: storage.DefaultMaxSize}
	for _, opt := range opts {
		opt(o)
	}

	client := o.s3Client
	if client == nil {
		awsOptions := []func(*config.LoadOptions) error{
			config.WithRegion(cfg.Region),
		}

		// Static credentials when given, otherwise the default chain (env, IAM role)
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions,
				config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretKey,
					"",
				)),
			)
		}
		if o.httpClient != nil {
			awsOptions = append(awsOptions, config.WithHTTPClient(o.httpClient))
		}
		awsOptions = append(awsOptions, o.s3ConfigOptions...)

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		client = s3aws.NewFromConfig(awsConfig, func(so *s3aws.Options) {
			if cfg.Endpoint != "" {
				so.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			so.UsePathStyle = cfg.ForcePathStyle

			for _, opt := range o.s3ClientOptions {
				opt(so)
			}
		})
	}

	return &S3Storage{
		client:      client,
		bucket:      cfg.Bucket,
		maxSize:     o.maxSize,
		readTimeout: o.readTimeout,
	}, nil
}

// CanRead accepts s3:// locations.
func (s *S3Storage) CanRead(location string) bool {
	return strings.HasPrefix(location, URLScheme)
}

// Read downloads the object at an s3://bucket/key location. An empty bucket
// ("s3:///key") falls back to the configured one.
func (s *S3Storage) Read(ctx context.Context, location string) (*storage.Object, error) {
	bucket, key, err := s.parse(location)
	if err != nil {
		return nil, err
	}

	if s.readTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.readTimeout)
		defer cancel()
	}

	out, err := s.client.GetObject(ctx, &s3aws.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classifyS3Error(err, "get object", location)
	}
	defer func() { _ = out.Body.Close() }()

	if out.ContentLength != nil && *out.ContentLength > s.maxSize {
		return nil, fmt.Errorf("%w: %s", storage.ErrFileTooLarge, location)
	}
	data, err := io.ReadAll(io.LimitReader(out.Body, s.maxSize+1))
	if err != nil {
		return nil, classifyS3Error(err, "read object", location)
	}
	if int64(len(data)) > s.maxSize {
		return nil, fmt.Errorf("%w: %s", storage.ErrFileTooLarge, location)
	}

	obj := &storage.Object{
		Data:        data,
		ContentType: aws.ToString(out.ContentType),
	}
	if obj.ContentType == "" || obj.ContentType == "binary/octet-stream" {
		obj.ContentType = storage.ContentType(key)
	}
	if out.LastModified != nil {
		obj.ModTime = *out.LastModified
	}
	return obj, nil
}

func (s *S3Storage) parse(location string) (bucket, key string, err error) {
	if !s.CanRead(location) {
		return "", "", fmt.Errorf("%w: %s", storage.ErrUnsupportedLocation, location)
	}
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s", storage.ErrInvalidPath, location)
	}

	bucket = u.Host
	if bucket == "" {
		bucket = s.bucket
	}
	key = strings.TrimPrefix(u.Path, "/")
	// S3 key validation - prevent path traversal in object keys
	if bucket == "" || key == "" || strings.Contains(key, "..") {
		return "", "", fmt.Errorf("%w: %s", storage.ErrInvalidPath, location)
	}
	return bucket, key, nil
}
