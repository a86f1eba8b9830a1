package middleware

import (
	"bytes"
	"net/http"

	"powermatch/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader carries the client-chosen request key
const IdempotencyKeyHeader = "X-Idempotency-Key"

// IdempotencyReplayHeader marks a response replayed from a stored result
const IdempotencyReplayHeader = "X-Idempotency-Replay"

// Idempotency deduplicates mutating requests by client IP and idempotency
// key. A concurrent duplicate gets 409; a duplicate of a completed request
// gets the stored response replayed; a duplicate of a failed request is
// allowed through to retry.
func Idempotency(guard *ratelimit.IdempotencyGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || c.Request.Method == http.MethodGet {
			c.Next()
			return
		}

		clientID := c.ClientIP()
		c.Header(IdempotencyKeyHeader, key)
		result := guard.Check(clientID, key)

		if !result.ShouldProcess {
			if result.Status == ratelimit.StatusCompleted {
				c.Header(IdempotencyReplayHeader, "true")
				c.Data(result.StatusCode, "application/json", result.Response)
				c.Abort()
				return
			}
			c.JSON(http.StatusConflict, gin.H{
				"error": "a request with this idempotency key is already in progress",
			})
			c.Abort()
			return
		}

		recorder := &responseRecorder{ResponseWriter: c.Writer, body: new(bytes.Buffer)}
		c.Writer = recorder

		c.Next()

		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			guard.MarkFailed(clientID, key)
			return
		}
		guard.StoreResponse(clientID, key, status, recorder.body.Bytes())
	}
}

// responseRecorder copies the response body while writing it through
type responseRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}

func (r *responseRecorder) WriteString(s string) (int, error) {
	return r.Write([]byte(s))
}
