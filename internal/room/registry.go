// internal/room/registry.go
package room

import (
	"sync"

	"github.com/openskipbo/server/internal/game"
	"github.com/openskipbo/server/internal/models"
)

// Registry is the only process-wide mutable state: room code -> session, and
// connection id -> room code. Its own mutex guards just these two maps; each
// session carries its own per-room mutex, so intents for different rooms
// never contend with each other.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*game.Game
	conns map[string]string // connID -> room code
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*game.Game),
		conns: make(map[string]string),
	}
}

// CreateRoom makes a new session with the creator as player 0 and hands back
// the shareable code.
func (r *Registry) CreateRoom(connID, name string, cfg game.Config) (*game.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := newRoomCode()
	for _, taken := r.rooms[code]; taken; _, taken = r.rooms[code] {
		code = newRoomCode()
	}

	g := game.NewGame(code, cfg)
	if _, err := g.AddPlayer(connID, name); err != nil {
		return nil, err
	}
	r.rooms[code] = g
	r.conns[connID] = code
	return g, nil
}

// JoinRoom appends a player to an existing, not-yet-started room.
func (r *Registry) JoinRoom(code, connID, name string) (*game.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.rooms[code]
	if !ok {
		return nil, game.ErrRoomNotFound
	}

	g.Mu.Lock()
	_, err := g.AddPlayer(connID, name)
	g.Mu.Unlock()
	if err != nil {
		return nil, err
	}
	r.conns[connID] = code
	return g, nil
}

// Reconnect re-points a player's identity from oldConnID to newConnID inside
// the live session, without touching any game state. The old connection id's
// mapping is dropped, not duplicated.
func (r *Registry) Reconnect(code, oldConnID, newConnID string) (*game.Game, *models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.rooms[code]
	if !ok {
		return nil, nil, game.ErrRoomNotFound
	}

	g.Mu.Lock()
	p := g.RebindPlayerID(oldConnID, newConnID)
	g.Mu.Unlock()
	if p == nil {
		return nil, nil, game.ErrPlayerNotFound
	}

	delete(r.conns, oldConnID)
	r.conns[newConnID] = code
	return g, p, nil
}

// RoomFor resolves the session a connection belongs to.
func (r *Registry) RoomFor(connID string) (*game.Game, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code, ok := r.conns[connID]
	if !ok {
		return nil, false
	}
	g, ok := r.rooms[code]
	return g, ok
}

// RoomByCode looks a session up directly.
func (r *Registry) RoomByCode(code string) (*game.Game, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.rooms[code]
	return g, ok
}

// RemoveRoom hard-aborts a room: the session and every conn mapping pointing
// at it are dropped. Remaining participants lose the game; there is no
// partial-session resume.
func (r *Registry) RemoveRoom(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeRoomLocked(code)
}

func (r *Registry) removeRoomLocked(code string) {
	delete(r.rooms, code)
	for id, c := range r.conns {
		if c == code {
			delete(r.conns, id)
		}
	}
}

// Disconnect unbinds a connection and marks its player as disconnected. If
// the room never started and no connected players remain, the room is
// deleted so abandoned lobbies don't accumulate. Returns the session the
// connection belonged to (nil if unmapped) and whether the room was deleted.
func (r *Registry) Disconnect(connID string) (*game.Game, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code, ok := r.conns[connID]
	if !ok {
		return nil, false
	}
	delete(r.conns, connID)

	g, ok := r.rooms[code]
	if !ok {
		return nil, false
	}

	g.Mu.Lock()
	if p := g.PlayerByID(connID); p != nil {
		p.Connected = false
		p.Conn = nil
	}
	started := g.Started
	anyConnected := false
	for _, p := range g.Players {
		if p.Connected {
			anyConnected = true
			break
		}
	}
	g.Mu.Unlock()

	if !started && !anyConnected {
		r.removeRoomLocked(code)
		return g, true
	}
	return g, false
}

// Len reports the number of active rooms, for the health endpoint.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}
