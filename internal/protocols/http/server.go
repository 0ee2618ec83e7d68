package http

import (
	"github.com/gin-gonic/gin"

	"bloghub/internal/core"
	"bloghub/pkg/config"
)

// Server manages the HTTP REST API server
type Server struct {
	router     *gin.Engine
	config     *config.Config
	commentSvc core.CommentService
}

// NewServer creates a new HTTP server with all handlers
func NewServer(cfg *config.Config, commentSvc core.CommentService) *Server {
	// Set Gin to release mode by default
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	s := &Server{
		router:     router,
		config:     cfg,
		commentSvc: commentSvc,
	}

	s.setupRoutes()
	return s
}

// Router exposes the underlying gin engine for the composition root.
func (s *Server) Router() *gin.Engine {
	return s.router
}
