package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/text/unicode/norm"

	"upload-url-api/internal/application/ports"
	domain "upload-url-api/internal/domain/upload"
	"upload-url-api/internal/infrastructure/metrics"
	"upload-url-api/internal/infrastructure/mq"
)

type UploadURLService struct {
	presigner ports.Presigner
	events    ports.EventPublisher
	mCounter  *prometheus.CounterVec
}

// NewUploadURLService wires the signing port. events may be nil when
// publishing is disabled.
func NewUploadURLService(
	presigner ports.Presigner,
	events ports.EventPublisher,
	mCounter *prometheus.CounterVec,
) ports.UploadURLService {
	return &UploadURLService{
		presigner: presigner,
		events:    events,
		mCounter:  mCounter,
	}
}

func (s *UploadURLService) IssueUploadURL(ctx context.Context, req domain.Request) (*domain.SignedURL, error) {
	key, err := normalizeObjectKey(req.FileName)
	if err != nil {
		s.mCounter.WithLabelValues(metrics.UploadURLRejected).Inc()
		return nil, err
	}
	contentType := strings.TrimSpace(req.FileType)
	if contentType == "" {
		s.mCounter.WithLabelValues(metrics.UploadURLRejected).Inc()
		return nil, domain.NewValidationError("fileType", "fileType is required")
	}

	signed, err := s.presigner.PresignPut(ctx, domain.Object{
		Key:         key,
		ContentType: contentType,
		ACL:         domain.ACLPublicRead,
	})
	if err != nil {
		s.mCounter.WithLabelValues(metrics.UploadURLFailed).Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrSigningFailed, err)
	}

	s.mCounter.WithLabelValues(metrics.UploadURLIssued).Inc()
	s.publish(signed)

	return signed, nil
}

func (s *UploadURLService) publish(signed *domain.SignedURL) {
	if s.events == nil {
		return
	}

	ok := s.events.Enqueue(mq.Event{
		Id:          uuid.New(),
		TS:          time.Now().UTC(),
		Action:      mq.ActionUploadURLIssued,
		Provider:    signed.Provider,
		Bucket:      signed.Bucket,
		Key:         signed.Key,
		ContentType: signed.ContentType,
	})
	if !ok {
		s.mCounter.WithLabelValues(metrics.UploadEventDrop).Inc()
	}
}

// normalizeObjectKey turns a client file name into the object key. The name
// is kept as given apart from NFC normalization; anything S3 would reject or
// that reads as a path traversal is refused.
func normalizeObjectKey(name string) (string, error) {
	const field = "fileName"

	if strings.TrimSpace(name) == "" {
		return "", domain.NewValidationError(field, "fileName is required")
	}
	if !utf8.ValidString(name) {
		return "", domain.NewValidationError(field, "fileName must be valid UTF-8")
	}

	key := norm.NFC.String(name)
	if len(key) > domain.MaxKeyBytes {
		return "", domain.NewValidationError(field, fmt.Sprintf("fileName must be at most %d bytes", domain.MaxKeyBytes))
	}
	if strings.IndexFunc(key, unicode.IsControl) >= 0 {
		return "", domain.NewValidationError(field, "fileName must not contain control characters")
	}
	if strings.HasPrefix(key, "/") {
		return "", domain.NewValidationError(field, "fileName must not start with '/'")
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "." || seg == ".." {
			return "", domain.NewValidationError(field, "fileName must not contain '.' or '..' segments")
		}
	}

	return key, nil
}
