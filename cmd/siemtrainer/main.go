package main

import (
	"log"

	"siemtrainer/internal/app"
	"siemtrainer/internal/handler"
	"siemtrainer/internal/server"
)

func main() {
	// Initialize application
	application, err := app.New()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Log startup information
	application.LogStartupInfo()

	// Create and start HTTP server
	siemHandler := handler.NewSiemHandler(application.Generator, application.Evaluator)
	srv := server.New(application.Config.Port, application.Config.APIAuthToken, siemHandler)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
