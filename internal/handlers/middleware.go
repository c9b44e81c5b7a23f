package handlers

import (
	"time"

	"lumen_bridge/internal/requestid"

	"github.com/gin-gonic/gin"
)

var requestIDMiddleware = requestid.Middleware

// accessLog writes one debug line per request once the handler chain returns.
func (h *Handler) accessLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	if h.log == nil {
		return
	}
	h.log.Debugw("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"duration", time.Since(start),
		"request_id", requestid.Get(c),
	)
}
