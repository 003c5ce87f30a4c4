package main

import (
	"log"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"pillscout/internal/config"
	"pillscout/internal/drugapi"
	"pillscout/internal/reminder"
	"pillscout/internal/storage"
	"pillscout/internal/web"
)

func main() {
	// 1. Define and parse command-line flags
	flags := pflag.NewFlagSet("pillscout", pflag.ExitOnError)
	configPath := flags.String("config", "pillscout.yaml", "Path to an optional YAML config file")
	flags.String("db", "pillscout.db", "Path to the SQLite database file")
	flags.String("addr", ":8080", "Listen address for the web companion")
	resetDB := flags.Bool("reset-db", false, "Drop and recreate all tables, then exit")
	flags.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Open the database
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	log.Printf("Database opened successfully: %s", cfg.DBPath)

	if *resetDB {
		if err := db.Reset(); err != nil {
			log.Fatalf("Failed to reset database: %v", err)
		}
		log.Printf("Database reset: %s", cfg.DBPath)
		return
	}

	// 3. Wire the remote client and services
	client := drugapi.New(cfg.API.DrugBase, cfg.API.DiseaseBase, cfg.API.Timeout)
	reminders := reminder.NewService(db, reminder.NewTimerNotifier())

	// 4. Serve
	server := web.NewServer(db, client, reminders)
	log.Printf("Listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, server); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
