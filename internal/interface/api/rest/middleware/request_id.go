package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-Id"
	CtxRequestID    = "request_id"

	maxRequestIDLen = 128
)

// RequestID keeps a client supplied X-Request-Id or generates one, and
// echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if rid == "" || len(rid) > maxRequestIDLen {
			rid = uuid.NewString()
		}

		c.Set(CtxRequestID, rid)
		c.Header(HeaderRequestID, rid)
		c.Next()
	}
}
