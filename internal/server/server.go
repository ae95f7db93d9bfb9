package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"siemtrainer/internal/handler"
	"siemtrainer/internal/middleware"
)

// Server wraps the HTTP server
type Server struct {
	port           string
	siemHandler    *handler.SiemHandler
	authMiddleware *middleware.AuthMiddleware
}

// New creates a new HTTP server
func New(port string, authToken string, siemHandler *handler.SiemHandler) *Server {
	return &Server{
		port:           port,
		siemHandler:    siemHandler,
		authMiddleware: middleware.NewAuthMiddleware(authToken),
	}
}

// SetupRoutes configures HTTP routes
func (s *Server) SetupRoutes() {
	http.HandleFunc("/api/siem/generate", s.authMiddleware.Authenticate(s.siemHandler.HandleGenerate))
	http.HandleFunc("/api/siem/evaluate", s.authMiddleware.Authenticate(s.siemHandler.HandleEvaluate))
	http.HandleFunc("/health", handler.HandleHealth)
	http.Handle("/metrics", promhttp.Handler())
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.SetupRoutes()

	log.Printf("HTTP server listening on :%s", s.port)
	if err := http.ListenAndServe(":"+s.port, nil); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
