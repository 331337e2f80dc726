// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/openskipbo/server/internal/database"
	"github.com/openskipbo/server/internal/game"
	"github.com/openskipbo/server/internal/middleware"
)

// WSHandler upgrades the HTTP connection, assigns it a connection id, and
// runs the read loop. Intents from one connection are processed strictly in
// arrival order; each intent runs to completion under its room's lock before
// the next is read.
func (s *Server) WSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			s.Logger.Warnf("WebSocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler exited")

		connID := uuid.NewString()
		middleware.LogWebSocketConnect(s.Logger, r.RemoteAddr, connID)

		// The client needs its transport identity before it can reconnect later.
		sendWsMessage(c, map[string]string{"type": EventConnected, "connId": connID})

		readErr := s.readIntents(r.Context(), c, connID)

		s.handleDisconnect(connID)
		middleware.LogWebSocketDisconnect(s.Logger, connID, readErr)
	}
}

// readIntents is the per-connection read loop.
func (s *Server) readIntents(ctx context.Context, c *websocket.Conn, connID string) error {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway ||
				strings.Contains(err.Error(), "context canceled") {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			s.Logger.Warnf("conn %s: ignoring non-text message", connID)
			continue
		}

		var msg IntentMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.Logger.Warnf("conn %s: invalid JSON: %v", connID, err)
			sendWsError(c, "bad_request", "invalid JSON")
			continue
		}

		s.dispatch(connID, c, msg)
	}
}

// dispatch routes one intent. Failures never mutate state and are reported
// only to the acting connection.
func (s *Server) dispatch(connID string, c *websocket.Conn, msg IntentMessage) {
	switch msg.Type {
	case IntentCreateRoom:
		s.handleCreateRoom(connID, c, msg)
	case IntentJoinRoom:
		s.handleJoinRoom(connID, c, msg)
	case IntentReconnect:
		s.handleReconnect(connID, c, msg)
	case IntentStartGame:
		s.handleStartGame(connID, c)
	case IntentPlayCard:
		s.handlePlayCard(connID, c, msg)
	case IntentDiscardCard:
		s.handleDiscardCard(connID, c, msg)
	case IntentEndTurn:
		s.handleEndTurn(connID, c)
	case IntentChat:
		s.handleChat(connID, msg)
	case IntentLeaveGame:
		s.handleLeaveGame(connID)
	default:
		s.Logger.Warnf("conn %s: unknown intent type %q", connID, msg.Type)
		sendWsError(c, "bad_request", "unknown intent type: "+msg.Type)
	}
}

// sendFailure maps a rejected intent onto an error frame. Unexpected plain
// errors are reported with a generic code but still leave state untouched.
func (s *Server) sendFailure(c *websocket.Conn, err error) {
	if f, ok := game.AsFailure(err); ok {
		sendWsError(c, f.Code, f.Error())
		return
	}
	sendWsError(c, "bad_request", err.Error())
}

func (s *Server) handleCreateRoom(connID string, c *websocket.Conn, msg IntentMessage) {
	g, err := s.Registry.CreateRoom(connID, msg.Name, game.Config{
		MaxPlayers:    msg.MaxPlayers,
		StockpileSize: msg.StockpileSize,
	})
	if err != nil {
		s.sendFailure(c, err)
		return
	}

	g.Mu.Lock()
	if p := g.PlayerByID(connID); p != nil {
		p.Conn = c
	}
	public := g.PublicView()
	g.Mu.Unlock()

	s.Logger.Infof("room %s created by %s (%s)", g.RoomCode, msg.Name, connID)
	sendWsMessage(c, map[string]interface{}{
		"type":      EventRoomCreated,
		"roomCode":  g.RoomCode,
		"playerId":  connID,
		"gameState": public,
	})
}

func (s *Server) handleJoinRoom(connID string, c *websocket.Conn, msg IntentMessage) {
	g, err := s.Registry.JoinRoom(msg.RoomCode, connID, msg.Name)
	if err != nil {
		s.sendFailure(c, err)
		return
	}

	g.Mu.Lock()
	if p := g.PlayerByID(connID); p != nil {
		p.Conn = c
	}
	public := g.PublicView()
	g.Mu.Unlock()

	s.Logger.Infof("%s (%s) joined room %s", msg.Name, connID, g.RoomCode)
	s.broadcastEvent(g, map[string]interface{}{
		"type":       EventPlayerJoined,
		"playerId":   connID,
		"playerName": msg.Name,
		"gameState":  public,
	})
}

func (s *Server) handleReconnect(connID string, c *websocket.Conn, msg IntentMessage) {
	g, p, err := s.Registry.Reconnect(msg.RoomCode, msg.OldConnID, connID)
	if err != nil {
		// The client clears its cached session on this failure and returns
		// to the lobby.
		sendWsMessage(c, map[string]string{
			"type":    EventReconnectFailed,
			"message": err.Error(),
		})
		return
	}

	g.Mu.Lock()
	p.Conn = c
	public := g.PublicView()
	private := g.PrivateView(connID)
	g.Mu.Unlock()

	s.Logger.Infof("conn %s reconnected to room %s as %s", connID, g.RoomCode, p.Name)
	sendWsMessage(c, map[string]interface{}{
		"type":        EventReconnected,
		"roomCode":    g.RoomCode,
		"playerId":    connID,
		"gameState":   public,
		"playerState": private,
	})
	// Everyone else sees the seat come back online.
	s.broadcastState(g, EventGameStateUpdate)
}

func (s *Server) handleStartGame(connID string, c *websocket.Conn) {
	g, ok := s.Registry.RoomFor(connID)
	if !ok {
		s.sendFailure(c, game.ErrRoomNotFound)
		return
	}

	g.Mu.Lock()
	err := g.Start()
	var currentID string
	if cur := g.CurrentPlayer(); cur != nil {
		currentID = cur.ID
	}
	g.Mu.Unlock()

	if err != nil {
		s.sendFailure(c, err)
		return
	}

	s.broadcastState(g, EventGameStarted)
	s.broadcastEvent(g, map[string]string{
		"type":            EventTurnChanged,
		"currentPlayerId": currentID,
	})
}

func (s *Server) handlePlayCard(connID string, c *websocket.Conn, msg IntentMessage) {
	g, ok := s.Registry.RoomFor(connID)
	if !ok {
		s.sendFailure(c, game.ErrRoomNotFound)
		return
	}
	if msg.Card == nil {
		sendWsError(c, "bad_request", "play_card requires a card")
		return
	}
	src, err := game.ParseSource(msg.Source)
	if err != nil {
		s.sendFailure(c, game.ErrInvalidMove)
		return
	}

	g.Mu.Lock()
	err = g.PlayCard(connID, *msg.Card, src, msg.BuildingPileIndex)
	gameOver := g.GameOver
	winner := g.Winner
	public := g.PublicView()
	playerCount := len(g.Players)
	stockpileSize := g.DealtStockpileSize()
	var duration time.Duration
	if gameOver {
		duration = time.Since(g.StartedAt)
	}
	g.Mu.Unlock()

	if err != nil {
		s.sendFailure(c, err)
		return
	}

	s.broadcastState(g, EventGameStateUpdate)

	if gameOver {
		s.broadcastEvent(g, map[string]interface{}{
			"type":      EventGameOver,
			"winner":    winner,
			"gameState": public,
		})
		s.archiveResult(g.RoomCode, winner, playerCount, stockpileSize, duration)
		s.Registry.RemoveRoom(g.RoomCode)
	}
}

func (s *Server) handleDiscardCard(connID string, c *websocket.Conn, msg IntentMessage) {
	g, ok := s.Registry.RoomFor(connID)
	if !ok {
		s.sendFailure(c, game.ErrRoomNotFound)
		return
	}
	if msg.Card == nil {
		sendWsError(c, "bad_request", "discard_card requires a card")
		return
	}

	// Discarding is how a turn ends, so a successful discard always chains
	// straight into the turn advance.
	g.Mu.Lock()
	err := g.DiscardCard(connID, *msg.Card, msg.DiscardPileIndex)
	var next string
	if err == nil {
		next, err = g.EndTurn(connID)
	}
	g.Mu.Unlock()

	if err != nil {
		s.sendFailure(c, err)
		return
	}

	s.broadcastState(g, EventGameStateUpdate)
	s.broadcastEvent(g, map[string]string{
		"type":            EventTurnChanged,
		"currentPlayerId": next,
	})
}

func (s *Server) handleEndTurn(connID string, c *websocket.Conn) {
	g, ok := s.Registry.RoomFor(connID)
	if !ok {
		s.sendFailure(c, game.ErrRoomNotFound)
		return
	}

	g.Mu.Lock()
	next, err := g.EndTurn(connID)
	g.Mu.Unlock()

	if err != nil {
		s.sendFailure(c, err)
		return
	}

	s.broadcastState(g, EventGameStateUpdate)
	s.broadcastEvent(g, map[string]string{
		"type":            EventTurnChanged,
		"currentPlayerId": next,
	})
}

// handleChat relays a message to the whole room. Messages from unmapped
// connections are silently dropped; chat never touches game state.
func (s *Server) handleChat(connID string, msg IntentMessage) {
	g, ok := s.Registry.RoomFor(connID)
	if !ok {
		return
	}

	g.Mu.Lock()
	p := g.PlayerByID(connID)
	g.Mu.Unlock()
	if p == nil {
		return
	}

	s.broadcastEvent(g, map[string]string{
		"type":       EventChat,
		"playerId":   connID,
		"playerName": p.Name,
		"message":    msg.Message,
	})
}

// handleLeaveGame hard-aborts the room for everyone in it.
func (s *Server) handleLeaveGame(connID string) {
	g, ok := s.Registry.RoomFor(connID)
	if !ok {
		return
	}
	s.Logger.Infof("room %s aborted by %s", g.RoomCode, connID)
	s.broadcastEvent(g, map[string]string{
		"type":    EventGameAborted,
		"message": "a player left the game",
	})
	s.Registry.RemoveRoom(g.RoomCode)
}

// handleDisconnect runs when a read loop exits for any reason.
func (s *Server) handleDisconnect(connID string) {
	g, deleted := s.Registry.Disconnect(connID)
	if g == nil {
		return
	}
	if deleted {
		s.Logger.Infof("room %s deleted: never started and all players gone", g.RoomCode)
		return
	}
	s.broadcastEvent(g, map[string]string{
		"type":     EventPlayerDisconnected,
		"playerId": connID,
		"message":  "a player has disconnected",
	})
	s.broadcastState(g, EventGameStateUpdate)
}

// archiveResult records the finished game in Postgres, when configured.
func (s *Server) archiveResult(roomCode string, winner *game.WinnerSnapshot, playerCount, stockpileSize int, duration time.Duration) {
	if winner == nil {
		return
	}
	res := database.GameResult{
		RoomCode:      roomCode,
		WinnerName:    winner.Name,
		PlayerCount:   playerCount,
		StockpileSize: stockpileSize,
		Duration:      duration,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.RecordGameResult(ctx, res); err != nil {
			s.Logger.Warnf("room %s: failed to archive result: %v", roomCode, err)
		}
	}()
}
