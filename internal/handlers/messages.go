// internal/handlers/messages.go
package handlers

import (
	"github.com/openskipbo/server/internal/game"
	"github.com/openskipbo/server/internal/models"
)

// IntentMessage is the envelope for every inbound client frame. Fields that
// don't apply to a given type are simply left empty by the client.
type IntentMessage struct {
	Type string `json:"type"`

	// create_room / join_room / reconnect
	Name          string `json:"name,omitempty"`
	MaxPlayers    int    `json:"maxPlayers,omitempty"`
	StockpileSize int    `json:"stockpileSize,omitempty"`
	RoomCode      string `json:"roomCode,omitempty"`
	OldConnID     string `json:"oldConnId,omitempty"`

	// play_card / discard_card. Card decodes a number or "SKIP-BO".
	Card              *models.Card `json:"card,omitempty"`
	Source            string       `json:"source,omitempty"`
	BuildingPileIndex int          `json:"buildingPileIndex"`
	DiscardPileIndex  int          `json:"discardPileIndex"`

	// chat
	Message string `json:"message,omitempty"`
}

// Client intent types.
const (
	IntentCreateRoom  = "create_room"
	IntentJoinRoom    = "join_room"
	IntentReconnect   = "reconnect"
	IntentStartGame   = "start_game"
	IntentPlayCard    = "play_card"
	IntentDiscardCard = "discard_card"
	IntentEndTurn     = "end_turn"
	IntentChat        = "chat"
	IntentLeaveGame   = "leave_game"
)

// Server event types.
const (
	EventConnected          = "connected"
	EventRoomCreated        = "room_created"
	EventPlayerJoined       = "player_joined"
	EventReconnected        = "reconnected"
	EventReconnectFailed    = "reconnect_failed"
	EventGameStarted        = "game_started"
	EventGameStateUpdate    = "game_state_update"
	EventTurnChanged        = "turn_changed"
	EventGameOver           = "game_over"
	EventChat               = "chat"
	EventPlayerDisconnected = "player_disconnected"
	EventGameAborted        = "game_aborted"
	EventError              = "error"
)

// StateEnvelope pairs the shared snapshot with the recipient's private view;
// it is the body of game_started and game_state_update frames.
type StateEnvelope struct {
	Type        string             `json:"type"`
	GameState   game.PublicState   `json:"gameState"`
	PlayerState *game.PrivateState `json:"playerState,omitempty"`
}

// ErrorMessage is sent only to the connection whose intent was rejected.
type ErrorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
