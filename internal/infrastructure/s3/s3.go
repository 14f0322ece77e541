package s3

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"go.uber.org/zap"

	"upload-url-api/config"
	"upload-url-api/internal/domain/upload"
)

// defaultPresignTTL is what the SDK applies when no expiry option is passed.
const defaultPresignTTL = 15 * time.Minute

type Client struct {
	logger    *zap.Logger
	presigner *awss3.PresignClient
	bucket    string
	ttl       time.Duration
}

func New(
	ctx context.Context,
	logger *zap.Logger,
	cfg config.S3,
) (*Client, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}

	if cfg.EndpointURL != "" {
		awsCfg.BaseEndpoint = aws.String(cfg.EndpointURL)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		o.UsePathStyle = cfg.EndpointURL != ""
	})

	logger.Info("s3 presigner initialized",
		zap.String("region", cfg.Region),
		zap.String("bucket", cfg.BucketUploads),
		zap.Bool("custom_endpoint", cfg.EndpointURL != ""),
	)

	return &Client{
		logger:    logger,
		presigner: awss3.NewPresignClient(client),
		bucket:    cfg.BucketUploads,
		ttl:       cfg.PresignTTL,
	}, nil
}

func (c *Client) PresignPut(ctx context.Context, obj upload.Object) (*upload.SignedURL, error) {
	in := &awss3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(obj.Key),
		ContentType: aws.String(obj.ContentType),
	}
	if obj.ACL != "" {
		in.ACL = types.ObjectCannedACL(obj.ACL)
	}

	opts := []func(*awss3.PresignOptions){
		awss3.WithPresignClientFromClientOptions(signContentType(obj.ContentType)),
	}
	ttl := defaultPresignTTL
	if c.ttl > 0 {
		ttl = c.ttl
		opts = append(opts, awss3.WithPresignExpires(c.ttl))
	}

	req, err := c.presigner.PresignPutObject(ctx, in, opts...)
	if err != nil {
		return nil, fmt.Errorf("presign put %q: %w", obj.Key, err)
	}
	c.logger.Debug("presigned put url", zap.String("key", obj.Key), zap.Duration("ttl", ttl))

	return &upload.SignedURL{
		URL:           req.URL,
		Method:        req.Method,
		Provider:      config.ProviderAWS,
		Bucket:        c.bucket,
		Key:           obj.Key,
		ContentType:   obj.ContentType,
		ACL:           obj.ACL,
		ExpiresIn:     ttl,
		SignedHeaders: req.SignedHeader.Clone(),
	}, nil
}

// signContentType puts Content-Type on the request right before it is
// presigned, so it lands in X-Amz-SignedHeaders and the upload must use it.
func signContentType(contentType string) func(*awss3.Options) {
	return func(o *awss3.Options) {
		o.APIOptions = append(o.APIOptions, func(stack *middleware.Stack) error {
			mw := middleware.FinalizeMiddlewareFunc("SignContentType", func(
				ctx context.Context, in middleware.FinalizeInput, next middleware.FinalizeHandler,
			) (middleware.FinalizeOutput, middleware.Metadata, error) {
				if req, ok := in.Request.(*smithyhttp.Request); ok && contentType != "" {
					req.Header.Set("Content-Type", contentType)
				}
				return next.HandleFinalize(ctx, in)
			})
			if err := stack.Finalize.Insert(mw, "PresignHTTPRequest", middleware.Before); err != nil {
				return stack.Finalize.Add(mw, middleware.Before)
			}
			return nil
		})
	}
}

func (c *Client) Provider() string  { return config.ProviderAWS }
func (c *Client) GetBucket() string { return c.bucket }
