// internal/models/player.go
package models

import (
	"github.com/coder/websocket"
)

// DiscardPileCount is the number of personal discard piles each player owns.
const DiscardPileCount = 4

// Player is one participant in a game session. ID is the transport-assigned
// connection identifier; a reconnect rewrites it in place so the player keeps
// their cards and turn position across transport drops.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Hand         []Card                   `json:"hand"`
	Stockpile    []Card                   `json:"stockpile"`
	DiscardPiles [DiscardPileCount][]Card `json:"discardPiles"`

	Connected bool            `json:"connected"`
	Conn      *websocket.Conn `json:"-"`
}

// NewPlayer returns a connected player with empty piles.
func NewPlayer(id, name string) *Player {
	return &Player{
		ID:        id,
		Name:      name,
		Hand:      []Card{},
		Stockpile: []Card{},
		Connected: true,
	}
}

// StockpileTop returns the playable top of the stockpile.
func (p *Player) StockpileTop() (Card, bool) {
	if len(p.Stockpile) == 0 {
		return Card{}, false
	}
	return p.Stockpile[len(p.Stockpile)-1], true
}
