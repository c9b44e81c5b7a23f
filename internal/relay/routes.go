package relay

import (
	"net/http"

	"lumen_bridge/internal/requestid"

	"github.com/gin-gonic/gin"
)

const (
	allowMethods = "GET, POST, OPTIONS"
	allowHeaders = "Content-Type"
)

// InitRoutes builds the relay engine: GET and POST on any path are forwarded,
// OPTIONS is answered locally, other methods get 405.
func (f *Forwarder) InitRoutes() *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery(), allowAnyOrigin, requestid.Middleware)

	router.GET("/*path", f.forward)
	router.POST("/*path", f.forward)
	router.OPTIONS("/*path", preflight)

	router.NoMethod(func(c *gin.Context) {
		c.Header("Allow", allowMethods)
		c.JSON(http.StatusMethodNotAllowed, relayError{Erro: errNoMethod})
	})
	return router
}

func allowAnyOrigin(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Next()
}

func preflight(c *gin.Context) {
	c.Header("Access-Control-Allow-Methods", allowMethods)
	c.Header("Access-Control-Allow-Headers", allowHeaders)
	c.Status(http.StatusOK)
}
