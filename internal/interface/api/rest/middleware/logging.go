package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"upload-url-api/internal/infrastructure/metrics"
)

const maxLogBodySize = 1 << 12 // 4 KB

func RequestLogGin(logger *zap.Logger, mCounter *prometheus.CounterVec) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions ||
			c.Request.URL.Path == "/favicon.ico" ||
			strings.HasSuffix(c.Request.URL.Path, "/metrics") {
			c.Next()
			return
		}

		start := time.Now()

		var body string
		if c.Request.Body != nil && c.Request.Method == http.MethodPost {
			ct := c.GetHeader("Content-Type")
			if strings.HasPrefix(ct, "multipart/form-data") {
				body = "<multipart/form-data omitted>"
			} else {
				var buf bytes.Buffer
				_, _ = io.Copy(&buf, io.LimitReader(c.Request.Body, maxLogBodySize))
				body = buf.String()
				// put back what was read, followed by whatever is left
				c.Request.Body = readCloser{
					Reader: io.MultiReader(bytes.NewReader(buf.Bytes()), c.Request.Body),
					Closer: c.Request.Body,
				}
			}
		}

		c.Next()

		if mCounter != nil {
			mCounter.WithLabelValues(metrics.AppRequests).Inc()
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		logger.Info("HTTP request",
			zap.String("request_id", c.GetString(CtxRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("url", route),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("body", body),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		)
	}
}

type readCloser struct {
	io.Reader
	io.Closer
}
