package game

import (
	"testing"

	"github.com/openskipbo/server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSource(t *testing.T) {
	src, err := ParseSource("hand")
	require.NoError(t, err)
	assert.Equal(t, Source{Kind: SourceHand}, src)

	src, err = ParseSource("stockpile")
	require.NoError(t, err)
	assert.Equal(t, Source{Kind: SourceStockpile}, src)

	src, err = ParseSource("discard2")
	require.NoError(t, err)
	assert.Equal(t, Source{Kind: SourceDiscard, Index: 2}, src)

	for _, bad := range []string{"", "discard4", "discard-1", "discardx", "deck"} {
		_, err := ParseSource(bad)
		assert.Errorf(t, err, "source %q should be rejected", bad)
	}
}

func TestRemoveFromHandFirstMatch(t *testing.T) {
	p := models.NewPlayer("a", "Ann")
	p.Hand = []models.Card{models.NewCard(5), models.WildCard(), models.NewCard(5)}

	ok := removeFromSource(p, Source{Kind: SourceHand}, models.NewCard(5))
	require.True(t, ok)
	assert.Equal(t, []models.Card{models.WildCard(), models.NewCard(5)}, p.Hand)

	ok = removeFromSource(p, Source{Kind: SourceHand}, models.NewCard(9))
	assert.False(t, ok)
	assert.Len(t, p.Hand, 2, "failed removal must not mutate the hand")
}

func TestRemoveFromStockpileTopOnly(t *testing.T) {
	p := models.NewPlayer("a", "Ann")
	p.Stockpile = []models.Card{models.NewCard(4), models.NewCard(9)}

	// The buried 4 can't be removed even though it's present.
	ok := removeFromSource(p, Source{Kind: SourceStockpile}, models.NewCard(4))
	assert.False(t, ok)
	assert.Len(t, p.Stockpile, 2)

	ok = removeFromSource(p, Source{Kind: SourceStockpile}, models.NewCard(9))
	require.True(t, ok)
	assert.Equal(t, []models.Card{models.NewCard(4)}, p.Stockpile)
}

func TestRemoveFromDiscardTopOnly(t *testing.T) {
	p := models.NewPlayer("a", "Ann")
	p.DiscardPiles[1] = []models.Card{models.NewCard(2), models.NewCard(8)}

	ok := removeFromSource(p, Source{Kind: SourceDiscard, Index: 1}, models.NewCard(2))
	assert.False(t, ok, "buried discard cards are not playable")

	ok = removeFromSource(p, Source{Kind: SourceDiscard, Index: 1}, models.NewCard(8))
	require.True(t, ok)
	assert.Equal(t, []models.Card{models.NewCard(2)}, p.DiscardPiles[1])

	ok = removeFromSource(p, Source{Kind: SourceDiscard, Index: 7}, models.NewCard(2))
	assert.False(t, ok, "out-of-range discard index must not panic or mutate")
}
