// Package config loads server configuration from flags, environment
// variables, and an optional .env file, in that order of precedence.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the server.
type Config struct {
	Port           int
	DBPath         string
	OwnerName      string
	Currency       string
	AllowedOrigins []string
}

// Load parses args (without the program name) on top of environment
// defaults. A missing .env file is not an error.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	port := fs.Int("port", getEnvAsInt("PORT", 8080), "HTTP server port")
	dbPath := fs.String("db", getEnv("DATABASE_PATH", "split.db"), "SQLite database path (\":memory:\" for in-memory)")
	owner := fs.String("owner", getEnv("OWNER_NAME", "Me"), "Name of the ledger owner in a fresh ledger")
	currency := fs.String("currency", getEnv("CURRENCY", "INR"), "ISO currency code used for display")
	origins := fs.String("origins", getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:8080"), "Comma-separated allowed CORS origins")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &Config{
		Port:           *port,
		DBPath:         *dbPath,
		OwnerName:      *owner,
		Currency:       strings.ToUpper(*currency),
		AllowedOrigins: splitList(*origins),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
