package ports

import (
	"context"

	"upload-url-api/internal/domain/upload"
)

type Presigner interface {
	PresignPut(ctx context.Context, obj upload.Object) (*upload.SignedURL, error)
	Provider() string
	GetBucket() string
}
