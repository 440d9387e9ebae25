// backend/main.go
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/seaviz/maritime/backend/config"
	"github.com/seaviz/maritime/backend/database"
	"github.com/seaviz/maritime/backend/handlers"
)

func main() {
	log.Println("Starting Maritime Aerosol Network Backend...")

	// .env is optional; real deployments set MAN_DB_* in the environment.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment overrides from .env")
	}

	configPath := "backend/config/config.yaml"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configPath = "config/config.yaml"
		if _, errFallback := os.Stat(configPath); os.IsNotExist(errFallback) {
			log.Fatalf("Config file not found at default paths. Error: %v", errFallback)
		}
	}

	err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	log.Printf("Configuration loaded. Server port: %s, DB name: %s",
		config.AppConfig.Server.Port, config.AppConfig.Database.DBName)
	log.Printf("Archive URL: %s", config.AppConfig.Man.ArchiveURL)

	err = database.InitDB(config.AppConfig.Database)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	defer database.CloseDB()

	// --- Setup HTTP routes ---
	http.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := database.DB.Ping(); err != nil {
			http.Error(w, `{"status": "error", "message": "database connection error"}`, http.StatusInternalServerError)
			log.Printf("Health check failed: DB ping error: %v", err)
			return
		}
		fmt.Fprintln(w, `{"status": "ok", "message": "MAN backend is healthy"}`)
	})

	http.HandleFunc("/api/download/", handlers.DownloadHandler)
	http.HandleFunc("/api/measurements/sites/", handlers.SiteListHandler)
	http.HandleFunc("/api/measurements/", handlers.MeasurementsHandler)
	http.HandleFunc("/api/display_info/", handlers.DisplayInfoHandler)
	http.HandleFunc("/api/admin/ingest/", handlers.IngestHandler)

	serverAddr := ":" + config.AppConfig.Server.Port
	log.Printf("Server starting on http://localhost%s\n", serverAddr)
	err = http.ListenAndServe(serverAddr, nil)
	if err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
