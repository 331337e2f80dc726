package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	prev := Rdb
	Rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = Rdb.Close()
		Rdb = prev
	})
	return mr
}

func TestPublishGameAction(t *testing.T) {
	mr := setupMiniredis(t)

	rec := GameActionRecord{
		RoomCode:    "ABC123",
		ActionIndex: 4,
		ActorID:     "conn-a",
		ActionType:  "card_played",
		ActionPayload: map[string]interface{}{
			"card": "SKIP-BO",
			"pile": 2,
		},
		Timestamp: 1700000000000,
	}
	require.NoError(t, PublishGameAction(context.Background(), rec))

	raw, err := mr.List(DefaultQueueName)
	require.NoError(t, err)
	require.Len(t, raw, 1)

	var got GameActionRecord
	require.NoError(t, json.Unmarshal([]byte(raw[0]), &got))
	assert.Equal(t, "ABC123", got.RoomCode)
	assert.Equal(t, 4, got.ActionIndex)
	assert.Equal(t, "card_played", got.ActionType)
	assert.Equal(t, "SKIP-BO", got.ActionPayload["card"])
}

func TestPublishGameActionPreservesOrder(t *testing.T) {
	mr := setupMiniredis(t)

	for i := 1; i <= 3; i++ {
		rec := GameActionRecord{RoomCode: "ABC123", ActionIndex: i, ActionType: "turn_ended"}
		require.NoError(t, PublishGameAction(context.Background(), rec))
	}

	raw, err := mr.List(DefaultQueueName)
	require.NoError(t, err)
	require.Len(t, raw, 3)
	for i, item := range raw {
		var got GameActionRecord
		require.NoError(t, json.Unmarshal([]byte(item), &got))
		assert.Equal(t, i+1, got.ActionIndex, "records drain in the order they were applied")
	}
}

func TestQueueNameOverride(t *testing.T) {
	mr := setupMiniredis(t)
	t.Setenv("HISTORY_QUEUE_NAME", "skipbo_actions_test")

	rec := GameActionRecord{RoomCode: "ABC123", ActionIndex: 1, ActionType: "game_start"}
	require.NoError(t, PublishGameAction(context.Background(), rec))

	raw, err := mr.List("skipbo_actions_test")
	require.NoError(t, err)
	assert.Len(t, raw, 1)
	assert.False(t, mr.Exists(DefaultQueueName))
}
