package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/AguMoya889/Pago-en-Linea/internal/config"
	_ "github.com/lib/pq"
)

func main() {
	cfg := config.Load()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error opening database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("error pinging database: %v", err)
	}

	sqlBytes, err := os.ReadFile("migrations/schema.sql")
	if err != nil {
		log.Fatalf("error reading schema file: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Println("Applying schema...")
	if _, err := db.ExecContext(ctx, string(sqlBytes)); err != nil {
		log.Fatalf("error applying schema: %v", err)
	}

	log.Println("Schema applied successfully")
}
