package main

import (
	"log"
	"os"

	"github.com/bruno.lopes/dutyroster/backend/internal/api"
	"github.com/bruno.lopes/dutyroster/backend/internal/database"
	"github.com/bruno.lopes/dutyroster/backend/internal/engine"
)

func main() {
	db, err := database.Initialize("./data/dutyroster.db")
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	eng := engine.New()

	server := api.NewServer(db, eng)
	log.Printf("Starting server on port %s", port)
	if err := server.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
