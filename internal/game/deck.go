// internal/game/deck.go
package game

import (
	"math/rand"

	"github.com/openskipbo/server/internal/models"
)

// DeckSize is the full Skip-Bo deck: 12 copies of each rank 1..12 plus 18
// SKIP-BO wild cards.
const DeckSize = 156

// Deck is an ordered pile of cards drawn from one end, stack style.
type Deck struct {
	cards []models.Card
}

// NewDeck builds the full 156-card deck in deterministic order; callers
// shuffle before dealing.
func NewDeck() *Deck {
	cards := make([]models.Card, 0, DeckSize)
	for rank := 1; rank <= 12; rank++ {
		for i := 0; i < 12; i++ {
			cards = append(cards, models.NewCard(rank))
		}
	}
	for i := 0; i < 18; i++ {
		cards = append(cards, models.WildCard())
	}
	return &Deck{cards: cards}
}

// Shuffle applies an unbiased Fisher-Yates permutation using r.
func (d *Deck) Shuffle(r *rand.Rand) {
	r.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top card. The false return means the deck is
// empty; callers treat it as "stop drawing", not as an error.
func (d *Deck) Draw() (models.Card, bool) {
	if len(d.cards) == 0 {
		return models.Card{}, false
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, true
}

// Len reports the cards remaining.
func (d *Deck) Len() int { return len(d.cards) }
