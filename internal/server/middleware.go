package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionHeader carries the client's session id in both directions.
const SessionHeader = "X-Session-ID"

const sessionKey = "session"

// requestLogger returns a Gin middleware that logs each request using zap.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("session", c.Writer.Header().Get(SessionHeader)),
		)
	}
}

// withSession attaches the caller's session. A missing or malformed id
// starts a new session; the id in use is echoed in the response header.
func withSession(store *sessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(SessionHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Header(SessionHeader, id)
		c.Set(sessionKey, store.get(id))
		c.Next()
	}
}
