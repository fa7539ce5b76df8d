package main

import (
	"log"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"

	"sprintbox/config"
	"sprintbox/database"
	"sprintbox/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("WARN: no .env file loaded: %v", err)
	}

	if _, err := config.LoadConfig(); err != nil {
		log.Printf("WARN: Failed to load config file: %v. Using defaults.", err)
	}
	config.ApplyEnvOverrides()
	cfg := config.GetConfig()

	log.Println("Connecting to database...")
	dbConn, err := sqlx.Open("sqlite3", cfg.DatabasePath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer dbConn.Close()

	if err := database.InitDatabase(dbConn); err != nil {
		log.Fatalf("Database initialization failed: %v", err)
	}
	log.Println("Database initialization complete.")

	mgr := session.NewManager(dbConn)
	maxAge := time.Duration(cfg.SessionMaxAgeHours) * time.Hour
	mgr.Cleanup(maxAge)
	mgr.StartCleanupLoop(maxAge, time.Hour)

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir("./static")))
	SetupRoutes(mux, mgr)

	log.Printf("Starting server on http://localhost%s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
		log.Fatalf("server start error: %v", err)
	}
}
