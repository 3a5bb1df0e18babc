// Package main - Entry point for the quote-pricing API server
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"quote-pricing/adapters/storage"
	"quote-pricing/api"
	"quote-pricing/internal/config"
)

const version = "0.1.0"

func main() {
	addr := flag.String("addr", ":8080", "Server address")
	dbPath := flag.String("db", "", "Catalog database path (default from config)")
	flag.Parse()

	path := *dbPath
	if path == "" {
		path = config.Get().Catalog.DatabasePath
	}

	store, err := storage.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening catalog database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	server := api.NewServer(version, store)

	fmt.Printf("quote-pricing server v%s\n", version)
	fmt.Printf("   API: http://localhost%s/api/v1\n", *addr)
	fmt.Printf("   Catalog: %s\n", path)

	if err := server.ListenAndServe(*addr); err != nil {
		log.Fatal(err)
	}
}
