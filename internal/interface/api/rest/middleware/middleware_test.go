package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"upload-url-api/internal/infrastructure/metrics"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRequestID)) })

	t.Run("generated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

		rid := rr.Header().Get(HeaderRequestID)
		assert.Len(t, rid, 36)
		assert.Equal(t, rid, rr.Body.String())
	})

	t.Run("client supplied", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(HeaderRequestID, "abc-123")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, "abc-123", rr.Header().Get(HeaderRequestID))
	})
}

func TestRequestLogGin_BodyPassthrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_counter"}, []string{"result"})

	r := gin.New()
	r.Use(RequestID(), RequestLogGin(zap.New(core), counter))
	r.POST("/api/upload", func(c *gin.Context) {
		b, err := io.ReadAll(c.Request.Body)
		require.NoError(t, err)
		c.String(http.StatusOK, string(b))
	})

	payload := `{"fileName":"cat.png","fileType":"image/png"}`
	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, payload, rr.Body.String())
	require.Equal(t, 1, logs.Len())

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/api/upload", fields["url"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, payload, fields["body"])
	assert.NotEmpty(t, fields["request_id"])
	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues(metrics.AppRequests)))
}

func TestRequestLogGin_SkipsMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	r := gin.New()
	r.Use(RequestLogGin(zap.New(core), nil))
	r.GET("/api/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, logs.Len())
}
