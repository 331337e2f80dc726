// internal/game/source.go
package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openskipbo/server/internal/models"
)

// SourceKind selects where a played card is taken from.
type SourceKind int

const (
	SourceHand SourceKind = iota
	SourceStockpile
	SourceDiscard
)

// Source identifies the origin of a played card. Index is only meaningful
// for SourceDiscard.
type Source struct {
	Kind  SourceKind
	Index int
}

// ParseSource converts the wire form ("hand", "stockpile", "discard0".."discard3")
// into a Source. Keeping the string parsing here means the engine itself only
// ever sees the typed form.
func ParseSource(s string) (Source, error) {
	switch {
	case s == "hand":
		return Source{Kind: SourceHand}, nil
	case s == "stockpile":
		return Source{Kind: SourceStockpile}, nil
	case strings.HasPrefix(s, "discard"):
		idx, err := strconv.Atoi(strings.TrimPrefix(s, "discard"))
		if err != nil || idx < 0 || idx >= models.DiscardPileCount {
			return Source{}, fmt.Errorf("invalid discard pile in source %q", s)
		}
		return Source{Kind: SourceDiscard, Index: idx}, nil
	default:
		return Source{}, fmt.Errorf("unknown card source %q", s)
	}
}

func (s Source) String() string {
	switch s.Kind {
	case SourceHand:
		return "hand"
	case SourceStockpile:
		return "stockpile"
	default:
		return "discard" + strconv.Itoa(s.Index)
	}
}

// removeFromSource takes card out of the declared source, enforcing the
// server-side constraint that only top cards leave the stockpile and discard
// piles. It returns false (and mutates nothing) when the card is not where
// the client claims it is.
func removeFromSource(p *models.Player, src Source, card models.Card) bool {
	switch src.Kind {
	case SourceHand:
		for i, c := range p.Hand {
			if c == card {
				p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
				return true
			}
		}
	case SourceStockpile:
		if top, ok := p.StockpileTop(); ok && top == card {
			p.Stockpile = p.Stockpile[:len(p.Stockpile)-1]
			return true
		}
	case SourceDiscard:
		if src.Index < 0 || src.Index >= models.DiscardPileCount {
			return false
		}
		pile := p.DiscardPiles[src.Index]
		if len(pile) > 0 && pile[len(pile)-1] == card {
			p.DiscardPiles[src.Index] = pile[:len(pile)-1]
			return true
		}
	}
	return false
}
