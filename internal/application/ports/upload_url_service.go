package ports

import (
	"context"

	"upload-url-api/internal/domain/upload"
)

type UploadURLService interface {
	IssueUploadURL(ctx context.Context, req upload.Request) (*upload.SignedURL, error)
}
