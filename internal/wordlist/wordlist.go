// Package wordlist loads the server's prompt pool from a flat file, one
// prompt per line.
package wordlist

import (
	"bufio"
	"log"
	"os"
	"strings"
)

// Load reads a newline-delimited prompts file: each line is lowercased and
// trimmed, empty lines are dropped. It calls log.Fatal on I/O failure —
// a server with no prompts can't run any game.
func Load(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("[Wordlist] unable to read prompts file %q: %v", path, err)
	}
	defer f.Close()

	var prompts []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if line == "" {
			continue
		}
		prompts = append(prompts, line)
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("[Wordlist] error scanning prompts file %q: %v", path, err)
	}

	if len(prompts) == 0 {
		log.Fatalf("[Wordlist] prompts file %q contained no usable prompts", path)
	}

	log.Printf("[Wordlist] loaded %d prompts from %q", len(prompts), path)
	return prompts
}
