package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"upload-url-api/internal/application/ports"
	domain "upload-url-api/internal/domain/upload"
	"upload-url-api/internal/infrastructure/metrics"
	"upload-url-api/internal/interface/api/rest/dto/upload"
	"upload-url-api/internal/interface/api/rest/validator"
)

// 64KB
const maxBodySize = int64(64 << 10)

type UploadController struct {
	uploadURLService ports.UploadURLService
	logger           *zap.Logger
	mCounter         *prometheus.CounterVec
}

func NewUploadController(
	r *gin.Engine,
	uploadURLService ports.UploadURLService,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) *UploadController {
	uc := &UploadController{
		uploadURLService: uploadURLService,
		logger:           logger,
		mCounter:         mCounter,
	}

	r.POST(RouteUpload, uc.CreateUploadURLHandler)

	return uc
}

func (uc *UploadController) CreateUploadURLHandler(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)

	var req upload.Request
	// binding follows Content-Type: JSON, urlencoded or multipart form
	if err := c.ShouldBind(&req); err != nil {
		uc.rejected()
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}
	if errs := validator.ValidateUploadRequest(req); errs != nil {
		uc.rejected()
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	signed, err := uc.uploadURLService.IssueUploadURL(c.Request.Context(), upload.ToDomainRequest(req))
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid request body",
				"details": vErr.Fields,
			})
			return
		}

		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to create upload url"},
		)
		uc.logger.Error("IssueUploadURL() error",
			zap.Error(err),
			zap.String("file_name", req.FileName),
			zap.String("file_type", req.FileType),
		)
		return
	}

	c.JSON(http.StatusOK, upload.ToResponse(*signed))
}

// rejected counts requests turned away before they reach the service; the
// service counts its own rejections.
func (uc *UploadController) rejected() {
	if uc.mCounter != nil {
		uc.mCounter.WithLabelValues(metrics.UploadURLRejected).Inc()
	}
}
