// Package requestid tags every request with an X-Request-ID so a device call
// can be followed through the relay into the API logs.
package requestid

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header carries the request id in both directions.
const Header = "X-Request-ID"

const ctxKey = "requestId"

// maxLen bounds ids accepted from clients.
const maxLen = 128

// Middleware reuses a sane inbound X-Request-ID or issues a new UUID,
// stores it in the gin context and echoes it on the response.
func Middleware(c *gin.Context) {
	id := c.GetHeader(Header)
	if id == "" || len(id) > maxLen {
		id = uuid.NewString()
	}
	c.Set(ctxKey, id)
	c.Header(Header, id)
	c.Next()
}

// Get returns the id stored by Middleware, or "" outside of it.
func Get(c *gin.Context) string {
	return c.GetString(ctxKey)
}
