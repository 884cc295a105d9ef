package main

import (
	"log"
	"net/http"

	"github.com/scythe504/wordwave/internal/config"
	"github.com/scythe504/wordwave/internal/directory"
	"github.com/scythe504/wordwave/internal/httpapi"
	"github.com/scythe504/wordwave/internal/wordlist"
)

func main() {
	cfg := config.Load()
	log.Printf("[Main] starting in %s mode", cfg.Environment)

	prompts := wordlist.Load(cfg.WordsFile)
	dir := directory.Spawn(prompts, cfg.InactivityTimeout)

	server := &httpapi.Server{
		Directory: dir,
		AllowCORS: cfg.AllowCORS,
	}

	addr := cfg.Host + ":" + cfg.Port
	log.Printf("[Main] listening on %s", addr)
	if err := http.ListenAndServe(addr, server.Routes()); err != nil {
		log.Fatalf("[Main] server exited: %v", err)
	}
}
