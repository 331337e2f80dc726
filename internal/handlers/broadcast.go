// internal/handlers/broadcast.go
package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/coder/websocket"
	"github.com/openskipbo/server/internal/game"
)

const broadcastWriteTimeout = 3 * time.Second

// outFrame is a marshaled payload bound for one connection.
type outFrame struct {
	conn *websocket.Conn
	data []byte
}

// writeFrames delivers frames asynchronously so a slow client never blocks
// room logic. Write failures are left to each connection's read loop to
// notice and clean up.
func (s *Server) writeFrames(frames []outFrame) {
	go func() {
		for _, f := range frames {
			ctx, cancel := context.WithTimeout(context.Background(), broadcastWriteTimeout)
			err := f.conn.Write(ctx, websocket.MessageText, f.data)
			cancel()
			if err != nil {
				s.Logger.Warnf("broadcast write failed: %v", err)
			}
		}
	}()
}

// broadcastState fans out a state envelope to every connected player in the
// room: the shared snapshot for everyone, plus each recipient's own private
// view. Snapshots are taken under the room lock; writes happen after it is
// released.
func (s *Server) broadcastState(g *game.Game, eventType string) {
	var frames []outFrame

	g.Mu.Lock()
	public := g.PublicView()
	for _, p := range g.Players {
		if !p.Connected || p.Conn == nil {
			continue
		}
		env := StateEnvelope{
			Type:        eventType,
			GameState:   public,
			PlayerState: g.PrivateView(p.ID),
		}
		data, err := json.Marshal(env)
		if err != nil {
			s.Logger.Errorf("room %s: failed to marshal %s for %s: %v", g.RoomCode, eventType, p.ID, err)
			continue
		}
		frames = append(frames, outFrame{conn: p.Conn, data: data})
	}
	g.Mu.Unlock()

	s.writeFrames(frames)
}

// broadcastEvent sends the same payload to every connected player in the room.
func (s *Server) broadcastEvent(g *game.Game, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.Logger.Errorf("room %s: failed to marshal broadcast payload: %v", g.RoomCode, err)
		return
	}

	var frames []outFrame
	g.Mu.Lock()
	for _, p := range g.Players {
		if p.Connected && p.Conn != nil {
			frames = append(frames, outFrame{conn: p.Conn, data: data})
		}
	}
	g.Mu.Unlock()

	s.writeFrames(frames)
}
