// Package api is a thin Gin layer over internal/engine and
// internal/database: solve submission, result retrieval, and the
// schedule-explainer chat.
package api

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/bruno.lopes/dutyroster/backend/internal/api/handlers"
	"github.com/bruno.lopes/dutyroster/backend/internal/engine"
)

// Version is set at build time via -ldflags.
var Version = "dev"

type Server struct {
	db     *sql.DB
	router *gin.Engine
}

func NewServer(db *sql.DB, eng *engine.Engine) *Server {
	s := &Server{
		db:     db,
		router: gin.Default(),
	}

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	s.router.Use(cors.New(config))

	s.setupRoutes(eng)
	return s
}

func (s *Server) setupRoutes(eng *engine.Engine) {
	h := handlers.NewHandler(s.db, eng)

	api := s.router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.GET("/version", func(c *gin.Context) {
			version := Version
			if v := os.Getenv("APP_VERSION"); v != "" {
				version = v
			}
			c.JSON(http.StatusOK, gin.H{"version": version})
		})

		api.POST("/solve", h.Solve)
		api.GET("/solve/:id", h.GetSolve)

		api.POST("/chat/:id", h.Chat)
		api.GET("/chat/:id/history", h.GetChatHistory)
		api.DELETE("/chat/:id/history", h.ClearChatHistory)
	}
}

func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
