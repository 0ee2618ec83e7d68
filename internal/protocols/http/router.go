package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// setupRoutes registers all HTTP routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now()})
	})

	auth := AuthMiddleware(s.config.JWT.Secret)
	optionalAuth := OptionalAuthMiddleware(s.config.JWT.Secret)
	writeLimit := RateLimitMiddleware(s.config.Server.WriteRateLimit, s.config.Server.WriteRateBurst)

	api := s.router.Group("/api")
	{
		// Read paths work for anonymous readers; a token only widens
		// what they see.
		api.GET("/posts/:id/comments", optionalAuth, s.listComments)
		api.POST("/comments/:id/like", writeLimit, s.likeComment)

		api.POST("/posts/:id/comments", auth, writeLimit, s.createComment)
		api.POST("/comments/:id/replies", auth, writeLimit, s.createReply)
		api.PUT("/comments/:id", auth, s.updateComment)
		api.DELETE("/comments/:id", auth, s.deleteComment)

		api.PUT("/comments/:id/approval", auth, RequireModerator(), s.setApproval)
	}
}

// corsMiddleware allows browser clients to talk to the API
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
