// Package config loads the server's runtime settings once at startup from
// the environment, the way the teacher's services pull theirs: a .env file
// populated via godotenv, then plain os.Getenv/strconv parsing into a flat
// struct, with a default for every unset value and failing fast on anything
// malformed.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment restricts ENVIRONMENT to the two values the original
// implementation allows.
type Environment string

const (
	EnvDev  Environment = "dev"
	EnvProd Environment = "prod"
)

// Config holds everything immutable for the process's lifetime.
type Config struct {
	Host string
	Port string

	InactivityTimeout time.Duration

	WordsFile string

	AllowCORS   bool
	Environment Environment
}

// Load reads a .env file if present (missing is not an error — the teacher
// treats env vars set by the shell/orchestrator as equally valid), then
// parses the settings from the environment. An unset or empty variable
// takes its default; a value that does not parse, or an ENVIRONMENT outside
// {dev, prod}, makes it call log.Fatalf, matching the teacher's fail-fast
// style for unrecoverable startup errors.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[Config] no .env file loaded (%v), reading from process environment", err)
	}

	host := getenvDefault("HOST", "0.0.0.0")
	port := getenvDefault("PORT", "8080")

	timeoutSeconds := mustAtoi("INACTIVITY_TIMEOUT_SECONDS", "900")

	wordsFile := getenvDefault("WORDS_FILE", "./words.txt")

	allowCORS := mustAtob("ALLOW_CORS", "false")

	env := Environment(getenvDefault("ENVIRONMENT", string(EnvDev)))
	if env != EnvDev && env != EnvProd {
		log.Fatalf("[Config] ENVIRONMENT must be one of {dev, prod}, got %q", env)
	}

	return &Config{
		Host:              host,
		Port:              port,
		InactivityTimeout: time.Duration(timeoutSeconds) * time.Second,
		WordsFile:         wordsFile,
		AllowCORS:         allowCORS,
		Environment:       env,
	}
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func mustAtoi(key, fallback string) int {
	raw := getenvDefault(key, fallback)
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("[Config] %s must be an integer, got %q: %v", key, raw, err)
	}
	return n
}

func mustAtob(key, fallback string) bool {
	raw := getenvDefault(key, fallback)
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Fatalf("[Config] %s must be a boolean, got %q: %v", key, raw, err)
	}
	return b
}
