// internal/game/views.go
package game

import "github.com/openskipbo/server/internal/models"

// PileView summarizes a discard pile without revealing buried cards.
type PileView struct {
	Count int          `json:"count"`
	Top   *models.Card `json:"top,omitempty"`
}

// PublicPlayerView is what every participant may know about a player: counts
// and pile tops, never the contents of another player's hand or stockpile.
type PublicPlayerView struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Connected    bool         `json:"connected"`
	StockpileLen int          `json:"stockpileCount"`
	StockpileTop *models.Card `json:"stockpileTop,omitempty"`
	HandLen      int          `json:"handCount"`
	DiscardPiles []PileView   `json:"discardPiles"`
}

// PublicState is the broadcast snapshot fanned out to every participant.
type PublicState struct {
	RoomCode           string             `json:"roomCode"`
	Players            []PublicPlayerView `json:"players"`
	BuildingPiles      [][]models.Card    `json:"buildingPiles"`
	CurrentPlayerIndex int                `json:"currentPlayerIndex"`
	CurrentPlayerID    string             `json:"currentPlayerId,omitempty"`
	DeckLen            int                `json:"deckCount"`
	Started            bool               `json:"gameStarted"`
	GameOver           bool               `json:"gameOver"`
	Winner             *WinnerSnapshot    `json:"winner,omitempty"`
}

// PrivateState is delivered only to its owner: the full hand and stockpile
// plus the player's own discard piles.
type PrivateState struct {
	Hand         []models.Card   `json:"hand"`
	Stockpile    []models.Card   `json:"stockpile"`
	StockpileTop *models.Card    `json:"stockpileTop,omitempty"`
	DiscardPiles [][]models.Card `json:"discardPiles"`
}

// PublicView builds the shared snapshot. Assumes the caller holds Mu.
func (g *Game) PublicView() PublicState {
	st := PublicState{
		RoomCode:           g.RoomCode,
		CurrentPlayerIndex: g.CurrentPlayerIndex,
		Started:            g.Started,
		GameOver:           g.GameOver,
		Winner:             g.Winner,
	}
	if g.Deck != nil {
		st.DeckLen = g.Deck.Len()
	}
	if cur := g.CurrentPlayer(); cur != nil {
		st.CurrentPlayerID = cur.ID
	}
	for _, pile := range g.BuildingPiles {
		st.BuildingPiles = append(st.BuildingPiles, pile.Cards())
	}
	for _, p := range g.Players {
		view := PublicPlayerView{
			ID:           p.ID,
			Name:         p.Name,
			Connected:    p.Connected,
			StockpileLen: len(p.Stockpile),
			HandLen:      len(p.Hand),
		}
		if top, ok := p.StockpileTop(); ok {
			c := top
			view.StockpileTop = &c
		}
		for _, dp := range p.DiscardPiles {
			pv := PileView{Count: len(dp)}
			if len(dp) > 0 {
				c := dp[len(dp)-1]
				pv.Top = &c
			}
			view.DiscardPiles = append(view.DiscardPiles, pv)
		}
		st.Players = append(st.Players, view)
	}
	return st
}

// PrivateView builds the per-recipient snapshot, or nil for an unknown id.
// Assumes the caller holds Mu.
func (g *Game) PrivateView(playerID string) *PrivateState {
	p := g.PlayerByID(playerID)
	if p == nil {
		return nil
	}
	st := &PrivateState{
		Hand:      append([]models.Card{}, p.Hand...),
		Stockpile: append([]models.Card{}, p.Stockpile...),
	}
	if top, ok := p.StockpileTop(); ok {
		c := top
		st.StockpileTop = &c
	}
	for _, dp := range p.DiscardPiles {
		st.DiscardPiles = append(st.DiscardPiles, append([]models.Card{}, dp...))
	}
	return st
}
