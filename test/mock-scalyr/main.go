package main

import (
	"log"
	"net/http"
	"os"

	"github.com/app-sre/scalyr-mcp/internal/test"
)

func main() {
	token := os.Getenv("SCALYR_API_TOKEN")
	if token == "" {
		token = "test"
	}

	addr := ":8090"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	log.Printf("Starting mock Scalyr query API on %s%s", addr, test.MockScalyrPath)
	if err := http.ListenAndServe(addr, test.NewMockScalyr(token).Router()); err != nil {
		log.Fatalf("Mock Scalyr server failed: %v", err)
	}
}
