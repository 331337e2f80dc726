package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardMarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewCard(7))
	require.NoError(t, err)
	assert.Equal(t, "7", string(data))

	data, err = json.Marshal(WildCard())
	require.NoError(t, err)
	assert.Equal(t, `"SKIP-BO"`, string(data))

	data, err = json.Marshal([]Card{NewCard(1), WildCard(), NewCard(12)})
	require.NoError(t, err)
	assert.Equal(t, `[1,"SKIP-BO",12]`, string(data))
}

func TestCardUnmarshalJSON(t *testing.T) {
	var c Card
	require.NoError(t, json.Unmarshal([]byte("4"), &c))
	assert.Equal(t, NewCard(4), c)

	require.NoError(t, json.Unmarshal([]byte(`"SKIP-BO"`), &c))
	assert.Equal(t, WildCard(), c)

	assert.Error(t, json.Unmarshal([]byte("0"), &c))
	assert.Error(t, json.Unmarshal([]byte("13"), &c))
	assert.Error(t, json.Unmarshal([]byte(`"JOKER"`), &c))
	assert.Error(t, json.Unmarshal([]byte("true"), &c))
}

func TestStockpileTop(t *testing.T) {
	p := NewPlayer("conn-a", "Ann")
	_, ok := p.StockpileTop()
	assert.False(t, ok)

	p.Stockpile = []Card{NewCard(3), NewCard(8)}
	top, ok := p.StockpileTop()
	require.True(t, ok)
	assert.Equal(t, NewCard(8), top)
}
