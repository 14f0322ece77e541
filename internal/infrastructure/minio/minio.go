package minio

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"upload-url-api/config"
	"upload-url-api/internal/domain/upload"
)

const (
	// MinIO has no implicit expiry for presigned requests.
	defaultPresignTTL = 15 * time.Minute
	maxPresignTTL     = 7 * 24 * time.Hour
)

type Client struct {
	logger *zap.Logger
	mc     *miniogo.Client
	bucket string
	ttl    time.Duration
}

func New(logger *zap.Logger, cfg config.S3) (*Client, error) {
	endpoint, secure, err := normaliseEndpoint(cfg.EndpointURL)
	if err != nil {
		return nil, fmt.Errorf("minio endpoint: %w", err)
	}

	mc, err := miniogo.New(endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: secure,
		// A fixed region keeps presigning local: no bucket location lookup.
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = defaultPresignTTL
	}
	if ttl > maxPresignTTL {
		return nil, fmt.Errorf("presign ttl %s exceeds the 7 day maximum", ttl)
	}

	logger.Info("minio presigner initialized",
		zap.String("endpoint", endpoint),
		zap.Bool("secure", secure),
		zap.String("bucket", cfg.BucketUploads),
	)

	return &Client{
		logger: logger,
		mc:     mc,
		bucket: cfg.BucketUploads,
		ttl:    ttl,
	}, nil
}

func (c *Client) PresignPut(ctx context.Context, obj upload.Object) (*upload.SignedURL, error) {
	headers := http.Header{}
	headers.Set("Content-Type", obj.ContentType)
	if obj.ACL != "" {
		headers.Set("X-Amz-Acl", obj.ACL)
	}

	u, err := c.mc.PresignHeader(ctx, http.MethodPut, c.bucket, obj.Key, c.ttl, nil, headers)
	if err != nil {
		return nil, fmt.Errorf("presign put %q: %w", obj.Key, err)
	}
	c.logger.Debug("presigned put url", zap.String("key", obj.Key), zap.Duration("ttl", c.ttl))

	return &upload.SignedURL{
		URL:           u.String(),
		Method:        http.MethodPut,
		Provider:      config.ProviderMinio,
		Bucket:        c.bucket,
		Key:           obj.Key,
		ContentType:   obj.ContentType,
		ACL:           obj.ACL,
		ExpiresIn:     c.ttl,
		SignedHeaders: headers,
	}, nil
}

func (c *Client) Provider() string  { return config.ProviderMinio }
func (c *Client) GetBucket() string { return c.bucket }

func normaliseEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("empty endpoint")
	}

	// Accept either "minio:9000" or "http://minio:9000" / "https://minio:9000".
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, err
		}
		if u.Host == "" {
			return "", false, fmt.Errorf("invalid endpoint")
		}
		if u.Path != "" && u.Path != "/" {
			return "", false, fmt.Errorf("endpoint must not contain a path")
		}
		return u.Host, u.Scheme == "https", nil
	}

	// No scheme: host:port, insecure like a local MinIO.
	return raw, false, nil
}
