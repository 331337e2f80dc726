// internal/models/card.go
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Card is an immutable Skip-Bo card: a numeric rank in [1,12], or a wild
// SKIP-BO card that stands in for whatever rank a building pile needs next.
type Card struct {
	Rank int  `json:"rank"`
	Wild bool `json:"wild"`
}

// WildRankToken is the wire representation of a wild card.
const WildRankToken = "SKIP-BO"

// NewCard returns a numbered card.
func NewCard(rank int) Card {
	return Card{Rank: rank}
}

// WildCard returns a SKIP-BO card.
func WildCard() Card {
	return Card{Wild: true}
}

func (c Card) String() string {
	if c.Wild {
		return WildRankToken
	}
	return strconv.Itoa(c.Rank)
}

// MarshalJSON encodes a card as a bare number, or the string "SKIP-BO" for
// wilds. This is the format clients already speak.
func (c Card) MarshalJSON() ([]byte, error) {
	if c.Wild {
		return json.Marshal(WildRankToken)
	}
	return json.Marshal(c.Rank)
}

// UnmarshalJSON accepts either a number or the "SKIP-BO" string.
func (c *Card) UnmarshalJSON(data []byte) error {
	var rank int
	if err := json.Unmarshal(data, &rank); err == nil {
		if rank < 1 || rank > 12 {
			return fmt.Errorf("card rank %d out of range [1,12]", rank)
		}
		*c = Card{Rank: rank}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("card must be a number or %q", WildRankToken)
	}
	if s != WildRankToken {
		return fmt.Errorf("unknown card token %q", s)
	}
	*c = Card{Wild: true}
	return nil
}
