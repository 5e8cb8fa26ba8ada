package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"trendradar/api"
	"trendradar/pipeline"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()
	log.SetOutput(os.Stderr)

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	p, err := pipeline.NewFromEnv(context.Background())
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	defer p.Close()

	r := api.NewRouter(p)
	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET  /api/health")
	log.Println("  GET  /api/rules")
	log.Println("  POST /api/filter/preview")
	log.Println("  POST /api/pipeline/run")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
