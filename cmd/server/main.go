// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/openskipbo/server/internal/cache"
	"github.com/openskipbo/server/internal/database"
	"github.com/openskipbo/server/internal/handlers"
	"github.com/openskipbo/server/internal/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	// Both backends are optional: without Redis the action history is not
	// recorded, without Postgres finished games are not archived. Live game
	// state lives in memory either way.
	if err := cache.ConnectRedis(); err != nil {
		logger.Warnf("redis unavailable, action history disabled: %v", err)
		cache.Rdb = nil
	}
	if os.Getenv("PG_HOST") != "" {
		if err := database.ConnectDB(); err != nil {
			logger.Warnf("postgres unavailable, result archive disabled: %v", err)
		}
	}

	srv := handlers.NewServer(logger)

	mux := http.NewServeMux()
	mux.Handle("/health", middleware.LogMiddleware(logger)(srv.HealthHandler()))
	mux.Handle("/ws", srv.WSHandler())

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
