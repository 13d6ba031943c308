package objectstore

import (
	"context"
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	bucket, key, file string
	opts              minio.PutObjectOptions
	err               error
}

func (f *fakeUploader) FPutObject(_ context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	f.bucket, f.key, f.file, f.opts = bucketName, objectName, filePath, opts
	if f.err != nil {
		return minio.UploadInfo{}, f.err
	}
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: 42}, nil
}

func TestResolveKey(t *testing.T) {
	tests := []struct {
		prefix, name, want string
	}{
		{"", "Login.zip", "Login.zip"},
		{"reports", "Login.zip", "reports/Login.zip"},
		{"/reports/nightly/", "Login.zip", "reports/nightly/Login.zip"},
		{"reports", "/Login.html", "reports/Login.html"},
	}
	for _, tt := range tests {
		t.Run(tt.prefix+"+"+tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ResolveKey(tt.prefix, tt.name))
		})
	}
}

func TestNormalizeProvider(t *testing.T) {
	require.Equal(t, "aws", NormalizeProvider(" S3 "))
	require.Equal(t, "gcs", NormalizeProvider("google"))
	require.Equal(t, "minio", NormalizeProvider(""))
	require.Equal(t, "minio", NormalizeProvider("anything"))
}

func TestDefaultEndpoint(t *testing.T) {
	require.Equal(t, "https://s3.amazonaws.com", DefaultEndpoint("s3"))
	require.Equal(t, "https://storage.googleapis.com", DefaultEndpoint(ProviderGCS))
	require.Empty(t, DefaultEndpoint(ProviderMinio))
}

func TestConfig_Enabled(t *testing.T) {
	require.True(t, Config{Provider: ProviderAWS, Bucket: "reports"}.Enabled())
	require.False(t, Config{Provider: ProviderMinio, Bucket: "reports"}.Enabled())
	require.False(t, Config{Endpoint: "http://localhost:9000"}.Enabled())
}

func TestSplitEndpoint(t *testing.T) {
	t.Run("plain http", func(t *testing.T) {
		host, secure, err := SplitEndpoint("http://localhost:9000")
		require.NoError(t, err)
		require.Equal(t, "localhost:9000", host)
		require.False(t, secure)
	})

	t.Run("https", func(t *testing.T) {
		host, secure, err := SplitEndpoint("https://s3.amazonaws.com")
		require.NoError(t, err)
		require.Equal(t, "s3.amazonaws.com", host)
		require.True(t, secure)
	})

	t.Run("missing scheme", func(t *testing.T) {
		_, _, err := SplitEndpoint("localhost:9000")
		require.ErrorIs(t, err, ErrUnsupportedEndpoint)
	})
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvEndpoint, "http://localhost:9000")
	t.Setenv(EnvBucket, "reports")
	t.Setenv(EnvPrefix, "nightly")
	t.Setenv(EnvProvider, "amazon")

	cfg := ConfigFromEnv()
	require.True(t, cfg.Enabled())
	require.Equal(t, "aws", cfg.Provider)
	require.Equal(t, "nightly", cfg.Prefix)
}

func TestNewPublisher(t *testing.T) {
	t.Run("requires bucket", func(t *testing.T) {
		_, err := NewPublisher(Config{Endpoint: "http://localhost:9000"}, nil)
		require.ErrorIs(t, err, ErrMissingBucket)
	})

	t.Run("requires scheme", func(t *testing.T) {
		_, err := NewPublisher(Config{Endpoint: "localhost:9000", Bucket: "reports"}, nil)
		require.ErrorIs(t, err, ErrUnsupportedEndpoint)
	})

	t.Run("minio requires an endpoint", func(t *testing.T) {
		_, err := NewPublisher(Config{Provider: ProviderMinio, Bucket: "reports"}, nil)
		require.ErrorIs(t, err, ErrMissingEndpoint)
	})

	t.Run("hosted providers use their default endpoint", func(t *testing.T) {
		p, err := NewPublisher(Config{Provider: "amazon", Bucket: "reports"}, nil)
		require.NoError(t, err)
		require.Equal(t, ProviderAWS, p.cfg.Provider)
		require.Equal(t, "https://s3.amazonaws.com", p.cfg.Endpoint)
	})

	t.Run("creates client", func(t *testing.T) {
		p, err := NewPublisher(Config{Endpoint: "http://localhost:9000", Bucket: "reports"}, nil)
		require.NoError(t, err)
		require.NotNil(t, p)
	})
}

func TestPublisher_Publish(t *testing.T) {
	t.Run("uploads under prefix", func(t *testing.T) {
		fake := &fakeUploader{}
		p := newPublisher(Config{Bucket: "reports", Prefix: "nightly"}, fake, nil)

		location, err := p.Publish(context.Background(), "Login/Login.zip")
		require.NoError(t, err)
		require.Equal(t, "s3://reports/nightly/Login.zip", location)
		require.Equal(t, "reports", fake.bucket)
		require.Equal(t, "Login/Login.zip", fake.file)
		require.Equal(t, "application/zip", fake.opts.ContentType)
	})

	t.Run("wraps upload errors", func(t *testing.T) {
		boom := errors.New("connection refused")
		p := newPublisher(Config{Bucket: "reports"}, &fakeUploader{err: boom}, nil)

		_, err := p.Publish(context.Background(), "Login.html")
		require.ErrorIs(t, err, boom)
	})
}
