// internal/game/pile.go
package game

import "github.com/openskipbo/server/internal/models"

// BuildingPileCount is the number of shared building piles per session.
const BuildingPileCount = 4

// BuildingPile is one of the four shared ascending 1..12 sequences. Wild
// cards resolve contextually: each one counts as the previous resolved value
// plus one, so the resolution must be recomputed from the whole pile history
// rather than cached.
type BuildingPile struct {
	cards []models.Card
}

// resolvedTop walks the pile and returns the numeric value its last card
// stands for. Leading wilds count up from 1.
func (p *BuildingPile) resolvedTop() int {
	value := 0
	for _, c := range p.cards {
		if c.Wild {
			value++
		} else {
			value = c.Rank
		}
	}
	return value
}

// NextRequired returns the rank the pile needs next. ok is false when the
// pile's resolved top is already 12, i.e. the pile is complete.
func (p *BuildingPile) NextRequired() (int, bool) {
	if len(p.cards) == 0 {
		return 1, true
	}
	top := p.resolvedTop()
	if top >= 12 {
		return 0, false
	}
	return top + 1, true
}

// CanAccept reports whether c is legal on this pile: the pile must not be
// complete, and the card must be wild or match the next required rank.
func (p *BuildingPile) CanAccept(c models.Card) bool {
	next, ok := p.NextRequired()
	if !ok {
		return false
	}
	return c.Wild || c.Rank == next
}

// Apply appends c. If the resolved top reaches 12 the pile is cleared to
// empty immediately; a completed run is never visible.
func (p *BuildingPile) Apply(c models.Card) {
	p.cards = append(p.cards, c)
	if p.resolvedTop() == 12 {
		p.cards = p.cards[:0]
	}
}

// Cards returns a copy of the pile's visible contents for snapshots.
func (p *BuildingPile) Cards() []models.Card {
	out := make([]models.Card, len(p.cards))
	copy(out, p.cards)
	return out
}

// Len reports the number of visible cards.
func (p *BuildingPile) Len() int { return len(p.cards) }
