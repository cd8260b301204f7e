package http

import (
	"github.com/gin-gonic/gin"
)

// RouterConfig carries the transport-level policy for the router.
type RouterConfig struct {
	AllowedOrigins        []string
	AllowedOriginSuffixes []string
}

// SetupRouter sets up the Gin router.
func SetupRouter(handlers *Handlers, cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(CORSMiddleware(cfg.AllowedOrigins, cfg.AllowedOriginSuffixes))

	router.GET("/healthz", handlers.Health)

	api := router.Group("/api")
	{
		api.GET("/nonce", handlers.Nonce)
		api.POST("/signin", handlers.SignIn)
		api.POST("/initiate-payment", handlers.InitiatePayment)
		api.POST("/verify-payment", handlers.VerifyPayment)
	}

	return router
}
