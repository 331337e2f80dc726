package room

import (
	"regexp"
	"testing"

	"github.com/openskipbo/server/internal/game"
	"github.com/openskipbo/server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndJoinRoom(t *testing.T) {
	r := NewRegistry()

	g, err := r.CreateRoom("conn-a", "Ann", game.Config{MaxPlayers: 4})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{6}$`), g.RoomCode)
	assert.Equal(t, 1, r.Len())

	g2, err := r.JoinRoom(g.RoomCode, "conn-b", "Ben")
	require.NoError(t, err)
	assert.Same(t, g, g2)
	assert.Len(t, g.Players, 2)

	got, ok := r.RoomFor("conn-b")
	require.True(t, ok)
	assert.Same(t, g, got)

	got, ok = r.RoomByCode(g.RoomCode)
	require.True(t, ok)
	assert.Same(t, g, got)
}

func TestJoinRoomFailures(t *testing.T) {
	r := NewRegistry()

	_, err := r.JoinRoom("NOSUCH", "conn-b", "Ben")
	assert.ErrorIs(t, err, game.ErrRoomNotFound)

	g, err := r.CreateRoom("conn-a", "Ann", game.Config{MaxPlayers: 2})
	require.NoError(t, err)
	_, err = r.JoinRoom(g.RoomCode, "conn-b", "Ben")
	require.NoError(t, err)

	_, err = r.JoinRoom(g.RoomCode, "conn-c", "Cleo")
	assert.ErrorIs(t, err, game.ErrRoomFull)
	_, ok := r.RoomFor("conn-c")
	assert.False(t, ok, "a rejected join must not leave a conn mapping behind")

	g.Mu.Lock()
	require.NoError(t, g.Start())
	g.Mu.Unlock()
	// Once full rooms start, the capacity error gives way to the phase error.
	g.MaxPlayers = 4
	_, err = r.JoinRoom(g.RoomCode, "conn-d", "Dee")
	assert.ErrorIs(t, err, game.ErrAlreadyStarted)
}

func TestReconnectRebindsIdentity(t *testing.T) {
	r := NewRegistry()
	g, err := r.CreateRoom("conn-a", "Ann", game.Config{MaxPlayers: 2, StockpileSize: 5, Seed: 7})
	require.NoError(t, err)
	_, err = r.JoinRoom(g.RoomCode, "conn-b", "Ben")
	require.NoError(t, err)
	g.Mu.Lock()
	require.NoError(t, g.Start())
	hand := append([]string{}, cardStrings(g.Players[0].Hand)...)
	g.Mu.Unlock()

	_, deleted := r.Disconnect("conn-a")
	assert.False(t, deleted, "a started room survives disconnects")

	g2, p, err := r.Reconnect(g.RoomCode, "conn-a", "conn-a2")
	require.NoError(t, err)
	assert.Same(t, g, g2)
	assert.Equal(t, "conn-a2", p.ID)
	assert.True(t, p.Connected)
	assert.Equal(t, hand, cardStrings(p.Hand), "cards survive the identity swap")

	_, ok := r.RoomFor("conn-a")
	assert.False(t, ok, "the stale conn mapping is gone")
	got, ok := r.RoomFor("conn-a2")
	require.True(t, ok)
	assert.Same(t, g, got)
}

func TestReconnectFailures(t *testing.T) {
	r := NewRegistry()
	g, err := r.CreateRoom("conn-a", "Ann", game.Config{MaxPlayers: 2})
	require.NoError(t, err)

	_, _, err = r.Reconnect("NOSUCH", "conn-a", "conn-a2")
	assert.ErrorIs(t, err, game.ErrRoomNotFound)

	_, _, err = r.Reconnect(g.RoomCode, "conn-x", "conn-x2")
	assert.ErrorIs(t, err, game.ErrPlayerNotFound)
}

func TestRemoveRoomDropsConnMappings(t *testing.T) {
	r := NewRegistry()
	g, err := r.CreateRoom("conn-a", "Ann", game.Config{MaxPlayers: 4})
	require.NoError(t, err)
	_, err = r.JoinRoom(g.RoomCode, "conn-b", "Ben")
	require.NoError(t, err)

	r.RemoveRoom(g.RoomCode)
	assert.Equal(t, 0, r.Len())
	_, ok := r.RoomFor("conn-a")
	assert.False(t, ok)
	_, ok = r.RoomFor("conn-b")
	assert.False(t, ok)
}

func TestDisconnectReapsEmptyLobbies(t *testing.T) {
	r := NewRegistry()
	g, err := r.CreateRoom("conn-a", "Ann", game.Config{MaxPlayers: 4})
	require.NoError(t, err)
	_, err = r.JoinRoom(g.RoomCode, "conn-b", "Ben")
	require.NoError(t, err)

	got, deleted := r.Disconnect("conn-a")
	assert.Same(t, g, got)
	assert.False(t, deleted, "the lobby lives while anyone is connected")
	assert.Equal(t, 1, r.Len())

	_, deleted = r.Disconnect("conn-b")
	assert.True(t, deleted, "an abandoned lobby is reaped")
	assert.Equal(t, 0, r.Len())

	// Unknown connections are a quiet no-op.
	got, deleted = r.Disconnect("conn-z")
	assert.Nil(t, got)
	assert.False(t, deleted)
}

func TestNewRoomCodeShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code := newRoomCode()
		assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{6}$`), code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1, "codes are not constant")
}

func cardStrings(cards []models.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
