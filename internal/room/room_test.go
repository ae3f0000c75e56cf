package room

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manhuntgg/manhunt-server/internal/engine"
	"github.com/manhuntgg/manhunt-server/internal/game"
	"github.com/manhuntgg/manhunt-server/internal/geo"
	"github.com/manhuntgg/manhunt-server/internal/zone"
)

func TestAddPlayer_FirstPlayerBecomesHost(t *testing.T) {
	r := NewRoom("TEST", nil, nil)

	p1 := &game.Player{ID: "p1", Nickname: "P1"}
	p2 := &game.Player{ID: "p2", Nickname: "P2"}
	r.AddPlayer(p1, mockClient("client1"))
	r.AddPlayer(p2, mockClient("client2"))

	assert.Equal(t, "p1", r.HostID)
}

func TestAddPlayer_RejectsFullRoom(t *testing.T) {
	r := NewRoom("TEST", nil, nil)

	for i := 0; i < game.MaxPlayers; i++ {
		id := fmt.Sprintf("p%d", i)
		ok := r.AddPlayer(&game.Player{ID: id, Nickname: id}, mockClient(id))
		require.True(t, ok)
	}

	ok := r.AddPlayer(&game.Player{ID: "extra", Nickname: "Extra"}, mockClient("extra"))
	assert.False(t, ok, "room at capacity should reject new players")
	assert.Equal(t, game.MaxPlayers, r.PlayerCount())
}

func TestRemovePlayer_TransfersHost(t *testing.T) {
	r := NewRoom("TEST", nil, nil)

	r.AddPlayer(&game.Player{ID: "p1", Nickname: "P1"}, mockClient("client1"))
	r.AddPlayer(&game.Player{ID: "p2", Nickname: "P2"}, mockClient("client2"))
	require.Equal(t, "p1", r.HostID)

	r.RemovePlayer("p1")

	assert.Equal(t, "p2", r.HostID, "host should transfer to a remaining player")
	assert.Equal(t, 1, r.PlayerCount())
}

func TestSetPlayerReady_RequiresMinPlayers(t *testing.T) {
	r := NewRoom("TEST", nil, nil)
	r.AddPlayer(&game.Player{ID: "p1", Nickname: "Solo"}, mockClient("client1"))

	assert.False(t, r.SetPlayerReady("p1", true), "should not start with less than MinPlayers")
}

func TestSetPlayerReady_RequiresAllReady(t *testing.T) {
	r := NewRoom("TEST", nil, nil)
	r.AddPlayer(&game.Player{ID: "p1", Nickname: "P1"}, mockClient("client1"))
	r.AddPlayer(&game.Player{ID: "p2", Nickname: "P2"}, mockClient("client2"))

	assert.False(t, r.SetPlayerReady("p1", true), "should not start while a player is not ready")
	assert.True(t, r.SetPlayerReady("p2", true))
}

func TestSetPlayerReady_UnreadyBlocksStart(t *testing.T) {
	r := NewRoom("TEST", nil, nil)
	r.AddPlayer(&game.Player{ID: "p1", Nickname: "P1", Ready: true}, mockClient("client1"))
	r.AddPlayer(&game.Player{ID: "p2", Nickname: "P2", Ready: true}, mockClient("client2"))

	assert.False(t, r.SetPlayerReady("p2", false))
}

func TestSetRules_RejectsInvalidConfig(t *testing.T) {
	r := NewRoom("TEST", nil, nil)

	rules := DefaultRules()
	rules.Zones.Circles = []zone.Circle{
		{Center: geo.LatLng{Lat: 37.5, Lng: 127.0}, RadiusMeters: -1, Active: true},
	}

	err := r.SetRules(rules)
	assert.ErrorIs(t, err, zone.ErrInvalidRadius)
}

func TestSetRules_RejectedMidGame(t *testing.T) {
	r, _ := setupTestRoom()
	r.PrepareGame()
	defer r.StopGame(game.WinNone)

	err := r.SetRules(DefaultRules())
	assert.ErrorIs(t, err, ErrGameInProgress)
}

func TestPrepareGame_AssignsExactlyOneIT(t *testing.T) {
	r := NewRoom("TEST", nil, nil)
	for i := 0; i < 4; i++ {
		id := fmt.Sprintf("p%d", i)
		r.AddPlayer(&game.Player{ID: id, Nickname: id, Ready: true}, mockClient(id))
	}

	r.PrepareGame()
	defer r.StopGame(game.WinNone)

	itCount := 0
	runnerCount := 0
	for _, p := range r.GetPlayerList() {
		switch p.Role {
		case game.RoleIT:
			itCount++
		case game.RoleRunner:
			runnerCount++
		}
	}
	assert.Equal(t, 1, itCount, "exactly one player should be the pursuer")
	assert.Equal(t, 3, runnerCount)
	assert.Equal(t, game.StatePlaying, r.State)
}

func TestSetPlayerReady_IgnoredOnceStarted(t *testing.T) {
	r, _ := setupTestRoom()
	r.PrepareGame()
	defer r.StopGame(game.WinNone)

	eval := r.eval
	it := findByRole(r, game.RoleIT)

	assert.False(t, r.SetPlayerReady("p1", true), "ready reports mid-game must not re-arm the start")

	// A stray duplicate prepare keeps the running game intact.
	r.PrepareGame()
	assert.Same(t, eval, r.eval, "running evaluator must survive a duplicate prepare")
	assert.Equal(t, it, findByRole(r, game.RoleIT))
}

func TestHandleTagAttempt_OnlyITCanTag(t *testing.T) {
	r, _ := setupTestRoom()
	r.PrepareGame()
	defer r.StopGame(game.WinNone)

	runner := findByRole(r, game.RoleRunner)
	it := findByRole(r, game.RoleIT)

	decision := r.HandleTagAttempt(runner.ID, it.ID)
	assert.False(t, decision.Allowed)
	assert.Equal(t, "only the pursuer can tag", decision.Reason)
}

func TestHandleTagAttempt_RotatesRoles(t *testing.T) {
	r, _ := setupTestRoom()
	r.PrepareGame()
	defer r.StopGame(game.WinNone)

	it := findByRole(r, game.RoleIT)
	runner := findByRole(r, game.RoleRunner)

	decision := r.HandleTagAttempt(it.ID, runner.ID)
	require.True(t, decision.Allowed)

	assert.Equal(t, game.RoleRunner, it.Role)
	assert.Equal(t, game.RoleIT, runner.Role)
}

func TestHandleTagAttempt_RevengeWindowBlocksReTag(t *testing.T) {
	r, _ := setupTestRoom()
	r.PrepareGame()
	defer r.StopGame(game.WinNone)

	it := findByRole(r, game.RoleIT)
	runner := findByRole(r, game.RoleRunner)

	require.True(t, r.HandleTagAttempt(it.ID, runner.ID).Allowed)

	// The new pursuer cannot immediately tag back the player who tagged them.
	decision := r.HandleTagAttempt(runner.ID, it.ID)
	assert.False(t, decision.Allowed)
	assert.Equal(t, "revenge cooldown", decision.Reason)
}

func TestHandleTagAttempt_UnknownTarget(t *testing.T) {
	r, _ := setupTestRoom()
	r.PrepareGame()
	defer r.StopGame(game.WinNone)

	it := findByRole(r, game.RoleIT)

	decision := r.HandleTagAttempt(it.ID, "ghost")
	assert.False(t, decision.Allowed)
	assert.Equal(t, "unknown or eliminated target", decision.Reason)
}

func TestHandleTagAttempt_RejectedWhileWaiting(t *testing.T) {
	r, _ := setupTestRoom()

	decision := r.HandleTagAttempt("p1", "p2")
	assert.False(t, decision.Allowed)
	assert.Equal(t, "game is not running", decision.Reason)
}

func TestHandlePosition_IgnoredWhileWaiting(t *testing.T) {
	r, _ := setupTestRoom()

	r.HandlePosition("p1", engine.Position{
		Coord:      geo.LatLng{Lat: 37.5, Lng: 127.0},
		CapturedAt: time.Now(),
	})

	assert.Nil(t, r.Players["p1"].LastPosition)
}

func TestHandlePosition_UpdatesSnapshot(t *testing.T) {
	r, _ := setupTestRoom()
	r.PrepareGame()
	defer r.StopGame(game.WinNone)

	at := time.Now()
	r.HandlePosition("p1", engine.Position{
		Coord:      geo.LatLng{Lat: 37.5, Lng: 127.0},
		CapturedAt: at,
	})

	p := r.Players["p1"]
	require.NotNil(t, p.LastPosition)
	assert.InDelta(t, 37.5, p.LastPosition.Coord.Lat, 1e-9)
	assert.Equal(t, at, p.LastReportAt)
}

func TestReset_PreservesPlayers(t *testing.T) {
	r, _ := setupTestRoom()
	r.PrepareGame()
	r.StopGame(game.WinIT)

	r.Reset()

	assert.Equal(t, game.StateWaiting, r.State)
	assert.Equal(t, 2, r.PlayerCount())
	for _, p := range r.GetPlayerList() {
		assert.False(t, p.Ready)
		assert.False(t, p.Eliminated)
	}
}

func TestManager_CreateAndFindRoom(t *testing.T) {
	m := NewManager(nil, nil)

	r := m.CreateRoom()
	require.NotNil(t, r)
	assert.Len(t, r.Code, 4)
	assert.Equal(t, r, m.GetRoom(r.Code))
	assert.Equal(t, 1, m.RoomCount())

	r.AddPlayer(&game.Player{ID: "p1", Nickname: "P1"}, mockClient("client1"))
	assert.Equal(t, r, m.FindRoomByPlayerID("p1"))
	assert.Nil(t, m.FindRoomByPlayerID("nobody"))

	m.RemoveRoom(r.Code)
	assert.Equal(t, 0, m.RoomCount())
}

// findByRole returns the first player with the given role.
func findByRole(r *Room, role game.Role) *game.Player {
	for _, p := range r.GetPlayerList() {
		if p.Role == role {
			return p
		}
	}
	return nil
}
