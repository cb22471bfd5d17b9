/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the split ledger server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load config (.env, environment, flags)
  2. Initialize SQLite store
  3. Create the Keeper and load (or recover) the persisted ledger
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port      HTTP server port (default: 8080, env PORT)
  -db        SQLite database path (default: split.db, env DATABASE_PATH)
             Use ":memory:" for in-memory database
  -owner     Owner name for a fresh ledger (default: Me, env OWNER_NAME)
  -currency  Display currency (default: INR, env CURRENCY)
  -origins   Allowed CORS origins (env CORS_ORIGINS)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  ./server -db="./data/split.db" -owner="Suvra"
  ./server -db=":memory:" -port=3000
*/
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/split-ledger/api"
	"github.com/warp/split-ledger/config"
	"github.com/warp/split-ledger/ledger"
	"github.com/warp/split-ledger/store/sqlite"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	keeper := ledger.NewKeeper(store, cfg.OwnerName)
	state, err := keeper.Current(context.Background())
	if err != nil {
		log.Fatalf("Failed to load ledger: %v", err)
	}
	log.Printf("Ledger loaded: %d people, %d open items, %d reports", len(state.People), len(state.Items), len(state.Reports))

	handler := api.NewHandler(keeper, ledger.NewEngine(), cfg.Currency)
	router := api.NewRouter(handler, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
