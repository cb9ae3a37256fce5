package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/solarqc/coc-backend/internal/interfaces/http/dto"
)

// DefaultMaxBodySize bounds request bodies when no limit is configured
const DefaultMaxBodySize int64 = 1 << 20

// BodyLimit rejects bodies over maxBytes up front and caps streamed ones
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodySize
	}
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size", GetRequestID(c)))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
