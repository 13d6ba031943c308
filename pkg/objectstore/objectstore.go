// Package objectstore publishes report artifacts to S3 compatible storage.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/denizgursoy/stepreport/pkg/stepreport"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const (
	EnvEndpoint  = "STEPREPORT_S3_ENDPOINT"
	EnvBucket    = "STEPREPORT_S3_BUCKET"
	EnvPrefix    = "STEPREPORT_S3_PREFIX"
	EnvAccessKey = "STEPREPORT_S3_ACCESS_KEY"
	EnvSecretKey = "STEPREPORT_S3_SECRET_KEY"
	EnvProvider  = "STEPREPORT_S3_PROVIDER"
)

// Providers returned by NormalizeProvider.
const (
	ProviderMinio = "minio"
	ProviderAWS   = "aws"
	ProviderGCS   = "gcs"
)

var (
	ErrMissingEndpoint     = errors.New("endpoint is required for provider minio")
	ErrUnsupportedEndpoint = errors.New("endpoint must start with http:// or https://")
	ErrMissingBucket       = errors.New("bucket is required")
)

var _ stepreport.Publisher = (*Publisher)(nil)

// Config describes the target bucket.
type Config struct {
	Provider  string
	Endpoint  string
	Bucket    string
	Prefix    string
	AccessKey string
	SecretKey string
}

// ConfigFromEnv reads the publishing configuration from the environment.
func ConfigFromEnv() Config {
	return Config{
		Provider:  NormalizeProvider(os.Getenv(EnvProvider)),
		Endpoint:  os.Getenv(EnvEndpoint),
		Bucket:    os.Getenv(EnvBucket),
		Prefix:    os.Getenv(EnvPrefix),
		AccessKey: os.Getenv(EnvAccessKey),
		SecretKey: os.Getenv(EnvSecretKey),
	}
}

// Enabled reports whether a bucket and an endpoint, given or implied by the
// provider, are configured.
func (c Config) Enabled() bool {
	return c.Bucket != "" && c.endpoint() != ""
}

// endpoint returns the configured endpoint or the provider default.
func (c Config) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return DefaultEndpoint(c.Provider)
}

// NormalizeProvider maps provider aliases to minio, aws or gcs.
func NormalizeProvider(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "aws", "s3", "amazon":
		return ProviderAWS
	case "gcs", "gcp", "google":
		return ProviderGCS
	default:
		return ProviderMinio
	}
}

// DefaultEndpoint returns the S3 compatible endpoint of a hosted provider.
// Self-hosted minio has none.
func DefaultEndpoint(provider string) string {
	switch NormalizeProvider(provider) {
	case ProviderAWS:
		return "https://s3.amazonaws.com"
	case ProviderGCS:
		return "https://storage.googleapis.com"
	default:
		return ""
	}
}

// ResolveKey joins the prefix and the object name into an object key.
func ResolveKey(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	name = strings.TrimLeft(filepath.ToSlash(name), "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// SplitEndpoint strips the scheme from endpoint and reports whether TLS is
// required.
func SplitEndpoint(endpoint string) (string, bool, error) {
	switch {
	case strings.HasPrefix(endpoint, "http://"):
		return strings.TrimPrefix(endpoint, "http://"), false, nil
	case strings.HasPrefix(endpoint, "https://"):
		return strings.TrimPrefix(endpoint, "https://"), true, nil
	default:
		return "", false, fmt.Errorf("%w: %q", ErrUnsupportedEndpoint, endpoint)
	}
}

// uploader is the subset of the minio client used to upload files.
type uploader interface {
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Publisher uploads files to a bucket.
type Publisher struct {
	cfg    Config
	client uploader
	logger *zap.Logger
}

// NewPublisher connects a minio client to the configured endpoint. aws and
// gcs fall back to their hosted endpoint when none is given.
func NewPublisher(cfg Config, logger *zap.Logger) (*Publisher, error) {
	if cfg.Bucket == "" {
		return nil, ErrMissingBucket
	}
	cfg.Provider = NormalizeProvider(cfg.Provider)
	cfg.Endpoint = cfg.endpoint()
	if cfg.Endpoint == "" {
		return nil, ErrMissingEndpoint
	}
	host, secure, err := SplitEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create %s client: %w", cfg.Provider, err)
	}
	return newPublisher(cfg, client, logger), nil
}

func newPublisher(cfg Config, client uploader, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{cfg: cfg, client: client, logger: logger}
}

// Publish uploads localPath under the configured prefix and returns the
// s3:// location of the object.
func (p *Publisher) Publish(ctx context.Context, localPath string) (string, error) {
	key := ResolveKey(p.cfg.Prefix, filepath.Base(localPath))
	info, err := p.client.FPutObject(ctx, p.cfg.Bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType(localPath),
	})
	if err != nil {
		return "", fmt.Errorf("could not upload %q to bucket %q: %w", localPath, p.cfg.Bucket, err)
	}

	location := fmt.Sprintf("s3://%s/%s", p.cfg.Bucket, key)
	p.logger.Info("artifact published",
		zap.String("location", location),
		zap.Int64("size", info.Size),
		zap.String("provider", p.cfg.Provider))
	return location, nil
}

func contentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html":
		return "text/html; charset=utf-8"
	case ".zip":
		return "application/zip"
	default:
		return "application/octet-stream"
	}
}
