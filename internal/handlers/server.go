// internal/handlers/server.go
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/openskipbo/server/internal/room"
	"github.com/sirupsen/logrus"
)

// Server owns the room registry and routes every websocket intent to it.
type Server struct {
	Registry *room.Registry
	Logger   *logrus.Logger
}

// NewServer wires an empty registry.
func NewServer(logger *logrus.Logger) *Server {
	return &Server{
		Registry: room.NewRegistry(),
		Logger:   logger,
	}
}

// HealthHandler reports liveness plus the active room count.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    "ok",
			"rooms":     s.Registry.Len(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// sendWsMessage marshals a message and sends it to the WebSocket client.
// Includes logging for errors and uses a write timeout.
func sendWsMessage(c *websocket.Conn, message interface{}) {
	if c == nil {
		return
	}
	msgBytes, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling WebSocket message: %v", err)
		return
	}

	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Write(writeCtx, websocket.MessageText, msgBytes); err != nil {
		status := websocket.CloseStatus(err)
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && !strings.Contains(err.Error(), "context deadline exceeded") {
			log.Printf("Error writing WebSocket message: %v (Status: %d)", err, status)
		}
		// Let the read loop handle connection closure detection.
	}
}

// sendWsError reports a rejected intent to the acting connection only.
func sendWsError(c *websocket.Conn, code, message string) {
	sendWsMessage(c, ErrorMessage{Type: EventError, Code: code, Message: message})
}
