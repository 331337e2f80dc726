// internal/game/game.go
package game

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/openskipbo/server/internal/cache"
	"github.com/openskipbo/server/internal/models"
)

const (
	// HandSize is the target hand size after replenishment.
	HandSize = 5

	// MaxRoomPlayers caps the roster so the 156-card deck always covers the
	// initial deal (6 players at stockpile 20 plus hands uses 150 cards).
	MaxRoomPlayers = 6
)

// Config carries the per-room settings chosen at creation time.
type Config struct {
	// MaxPlayers is the roster cap. The floor for starting a game is always 2.
	MaxPlayers int
	// StockpileSize overrides the dealt stockpile size. Zero selects the
	// standard size: 30 for rosters of up to 4 players, 20 above that. An
	// explicit value is capped at the same limits.
	StockpileSize int
	// Seed fixes the shuffle for deterministic replays and tests. Zero seeds
	// from the clock.
	Seed int64
}

// WinnerSnapshot captures the winner at the moment of victory, so the result
// doesn't alias live player state after the game ends.
type WinnerSnapshot struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Game holds the authoritative state for a single room. All methods assume
// the caller holds Mu; the transport layer takes the lock once per intent so
// each intent is atomic with respect to the room (different rooms never
// share state and need no cross locking).
type Game struct {
	RoomCode string

	MaxPlayers    int
	stockpileSize int

	Players            []*models.Player
	Deck               *Deck
	BuildingPiles      [BuildingPileCount]*BuildingPile
	CurrentPlayerIndex int

	Started  bool
	GameOver bool
	Winner   *WinnerSnapshot

	CreatedAt time.Time
	StartedAt time.Time

	dealtStockpileSize int

	rng         *rand.Rand
	actionIndex int

	Mu sync.Mutex
}

// NewGame builds an empty session for a room.
func NewGame(roomCode string, cfg Config) *Game {
	if cfg.MaxPlayers < 2 {
		cfg.MaxPlayers = 2
	}
	if cfg.MaxPlayers > MaxRoomPlayers {
		cfg.MaxPlayers = MaxRoomPlayers
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Game{
		RoomCode:      roomCode,
		MaxPlayers:    cfg.MaxPlayers,
		stockpileSize: cfg.StockpileSize,
		CreatedAt:     time.Now(),
		rng:           rand.New(rand.NewSource(seed)),
	}
	for i := range g.BuildingPiles {
		g.BuildingPiles[i] = &BuildingPile{}
	}
	return g
}

// AddPlayer appends a player to the roster while the room is still in the
// lobby. Roster order is turn order.
func (g *Game) AddPlayer(id, name string) (*models.Player, error) {
	if g.Started || g.GameOver {
		return nil, ErrAlreadyStarted
	}
	if len(g.Players) >= g.MaxPlayers {
		return nil, ErrRoomFull
	}
	p := models.NewPlayer(id, name)
	g.Players = append(g.Players, p)
	g.logAction(id, "player_join", map[string]interface{}{"name": name, "seat": len(g.Players) - 1})
	return p, nil
}

// effectiveStockpileSize resolves the configured size against the roster:
// the standard size is 30 for up to 4 players and 20 above, and explicit
// overrides are capped at the same limit.
func (g *Game) effectiveStockpileSize() int {
	limit := 30
	if len(g.Players) > 4 {
		limit = 20
	}
	size := g.stockpileSize
	if size <= 0 || size > limit {
		size = limit
	}
	return size
}

// Start shuffles and deals, then activates the turn cycle with roster[0].
// Two players are required no matter what MaxPlayers allows.
func (g *Game) Start() error {
	if g.Started || g.GameOver {
		return ErrAlreadyStarted
	}
	if len(g.Players) < 2 {
		return ErrNotEnoughPlayers
	}

	g.Deck = NewDeck()
	g.Deck.Shuffle(g.rng)

	// Deal order is observable for a fixed shuffle: each player receives
	// their full stockpile and then their hand before the next player is
	// dealt anything.
	size := g.effectiveStockpileSize()
	g.dealtStockpileSize = size
	for _, p := range g.Players {
		for i := 0; i < size; i++ {
			c, ok := g.Deck.Draw()
			if !ok {
				break
			}
			p.Stockpile = append(p.Stockpile, c)
		}
		for i := 0; i < HandSize; i++ {
			c, ok := g.Deck.Draw()
			if !ok {
				break
			}
			p.Hand = append(p.Hand, c)
		}
	}

	g.Started = true
	g.StartedAt = time.Now()
	g.CurrentPlayerIndex = 0
	log.Printf("room %s: game started with %d players, stockpile size %d, %d cards left in deck",
		g.RoomCode, len(g.Players), size, g.Deck.Len())
	g.logAction("", "game_start", map[string]interface{}{
		"players":       len(g.Players),
		"stockpileSize": size,
		"deckSize":      g.Deck.Len(),
	})
	return nil
}

// DealtStockpileSize is the stockpile size actually dealt at Start, zero
// before then.
func (g *Game) DealtStockpileSize() int { return g.dealtStockpileSize }

// CurrentPlayer returns the player whose turn it is, or nil before start.
func (g *Game) CurrentPlayer() *models.Player {
	if len(g.Players) == 0 || g.CurrentPlayerIndex < 0 || g.CurrentPlayerIndex >= len(g.Players) {
		return nil
	}
	return g.Players[g.CurrentPlayerIndex]
}

// PlayerByID finds a roster entry by connection id.
func (g *Game) PlayerByID(id string) *models.Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// RebindPlayerID rewrites a player's identity in place, preserving their
// hand, stockpile, discard piles and turn position. This is the reconnection
// mechanism: the session never learns about transports, only about ids.
func (g *Game) RebindPlayerID(oldID, newID string) *models.Player {
	p := g.PlayerByID(oldID)
	if p == nil {
		return nil
	}
	p.ID = newID
	p.Connected = true
	g.logAction(newID, "player_reconnect", map[string]interface{}{"previousId": oldID})
	return p
}

// PlayCard validates and applies a single card onto a building pile. A
// successful play does not advance the turn; players may play any number of
// cards per turn.
func (g *Game) PlayCard(actingID string, card models.Card, src Source, pileIndex int) error {
	p := g.PlayerByID(actingID)
	cur := g.CurrentPlayer()
	if p == nil || cur == nil || cur.ID != actingID || g.GameOver {
		return ErrNotYourTurn
	}
	if pileIndex < 0 || pileIndex >= BuildingPileCount {
		return ErrInvalidMove
	}
	pile := g.BuildingPiles[pileIndex]
	if !pile.CanAccept(card) {
		return ErrInvalidMove
	}
	if !removeFromSource(p, src, card) {
		return ErrCardNotFound
	}

	pile.Apply(card)
	g.logAction(actingID, "card_played", map[string]interface{}{
		"card":   card.String(),
		"source": src.String(),
		"pile":   pileIndex,
	})

	// An emptied hand replenishes immediately so the turn can continue.
	if len(p.Hand) == 0 {
		g.replenish(p)
	}

	// Emptying the stockpile is the only way to win, so this is the only
	// place the win condition is checked.
	if len(p.Stockpile) == 0 {
		g.GameOver = true
		g.Winner = &WinnerSnapshot{ID: p.ID, Name: p.Name}
		log.Printf("room %s: %s (%s) won after %s", g.RoomCode, p.Name, p.ID, time.Since(g.StartedAt))
		g.logAction(actingID, "game_won", map[string]interface{}{"winner": p.Name})
	}
	return nil
}

// DiscardCard moves a hand card onto one of the player's own discard piles.
// Discarding is always legal sequencing-wise; the transport layer chains the
// turn advance because discarding is how a turn ends.
func (g *Game) DiscardCard(actingID string, card models.Card, pileIndex int) error {
	p := g.PlayerByID(actingID)
	cur := g.CurrentPlayer()
	if p == nil || cur == nil || cur.ID != actingID || g.GameOver {
		return ErrNotYourTurn
	}
	if pileIndex < 0 || pileIndex >= models.DiscardPileCount {
		return ErrInvalidPileIndex
	}
	found := false
	for i, c := range p.Hand {
		if c == card {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return ErrCardNotInHand
	}
	p.DiscardPiles[pileIndex] = append(p.DiscardPiles[pileIndex], card)
	g.logAction(actingID, "card_discarded", map[string]interface{}{
		"card": card.String(),
		"pile": pileIndex,
	})
	return nil
}

// EndTurn replenishes the acting player's hand and hands the turn to the
// next roster entry. It returns the new current player's id.
func (g *Game) EndTurn(actingID string) (string, error) {
	p := g.PlayerByID(actingID)
	cur := g.CurrentPlayer()
	if p == nil || cur == nil || cur.ID != actingID || g.GameOver {
		return "", ErrNotYourTurn
	}
	g.replenish(p)
	g.CurrentPlayerIndex = (g.CurrentPlayerIndex + 1) % len(g.Players)
	next := g.Players[g.CurrentPlayerIndex].ID
	g.logAction(actingID, "turn_ended", map[string]interface{}{"next": next})
	return next, nil
}

// replenish draws into the hand until it holds HandSize cards or the deck
// runs out. An empty deck is a stop condition, never an error.
func (g *Game) replenish(p *models.Player) {
	for len(p.Hand) < HandSize {
		c, ok := g.Deck.Draw()
		if !ok {
			return
		}
		p.Hand = append(p.Hand, c)
	}
}

// logAction publishes an action record to the Redis history queue, if one is
// connected. Publishing is asynchronous and best-effort; game state never
// depends on it.
func (g *Game) logAction(actorID, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.GameActionRecord{
		RoomCode:      g.RoomCode,
		ActionIndex:   g.actionIndex,
		ActorID:       actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	go func(rec cache.GameActionRecord) {
		if cache.Rdb == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishGameAction(ctx, rec); err != nil {
			log.Printf("room %s: failed to publish action %d: %v", g.RoomCode, rec.ActionIndex, err)
		}
	}(record)
}
