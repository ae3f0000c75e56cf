package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/manhuntgg/manhunt-server/internal/game"
	"github.com/manhuntgg/manhunt-server/internal/room"
	"github.com/manhuntgg/manhunt-server/internal/ws"
)

// LobbyHandler handles lobby-related messages.
type LobbyHandler struct {
	rm     *room.Manager
	router *Router
}

// NewLobbyHandler creates a new lobby handler.
func NewLobbyHandler(rm *room.Manager, router *Router) *LobbyHandler {
	return &LobbyHandler{
		rm:     rm,
		router: router,
	}
}

type createGameRequest struct {
	Nickname string `json:"nickname"`
}

type createGameResponse struct {
	Code     string `json:"code"`
	PlayerID string `json:"player_id"`
}

// HandleCreateGame handles game creation.
func (h *LobbyHandler) HandleCreateGame(client *ws.Client, msg ws.Message) {
	var req createGameRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil || req.Nickname == "" {
		client.SendMessage(ws.NewErrorMessage("nickname is required"))
		return
	}

	r := h.rm.CreateRoom()
	player := game.NewPlayer(req.Nickname)
	r.AddPlayer(player, client)
	h.router.RegisterPlayer(client.ID, player.ID)

	resp, _ := ws.NewMessage(ws.TypeCreateGame, createGameResponse{
		Code:     r.Code,
		PlayerID: player.ID,
	})
	client.SendMessage(resp)

	slog.Info("player created game", "player", player.Nickname, "room", r.Code)
}

type joinGameRequest struct {
	Code     string `json:"code"`
	Nickname string `json:"nickname"`
}

// HandleJoinGame handles joining an existing game.
func (h *LobbyHandler) HandleJoinGame(client *ws.Client, msg ws.Message) {
	var req joinGameRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil || req.Code == "" || req.Nickname == "" {
		client.SendMessage(ws.NewErrorMessage("code and nickname are required"))
		return
	}

	r := h.rm.GetRoom(req.Code)
	if r == nil {
		client.SendMessage(ws.NewErrorMessage("game not found"))
		return
	}

	player := game.NewPlayer(req.Nickname)
	if !r.AddPlayer(player, client) {
		client.SendMessage(ws.NewErrorMessage("game is full"))
		return
	}
	h.router.RegisterPlayer(client.ID, player.ID)

	resp, _ := ws.NewMessage(ws.TypeJoinGame, createGameResponse{
		Code:     r.Code,
		PlayerID: player.ID,
	})
	client.SendMessage(resp)

	h.broadcastGameInfo(r)

	slog.Info("player joined game", "player", player.Nickname, "room", r.Code)
}

// HandleLeaveGame handles a player leaving their game.
func (h *LobbyHandler) HandleLeaveGame(client *ws.Client, _ ws.Message) {
	h.removeFromGame(client)
}

type playerReadyRequest struct {
	Ready bool `json:"ready"`
}

// HandlePlayerReady toggles readiness; once everyone is ready the game
// starts.
func (h *LobbyHandler) HandlePlayerReady(client *ws.Client, msg ws.Message) {
	var req playerReadyRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid ready payload"))
		return
	}

	playerID := h.router.GetPlayerID(client.ID)
	r := h.rm.FindRoomByPlayerID(playerID)
	if r == nil {
		client.SendMessage(ws.NewErrorMessage("not in a game"))
		return
	}

	if r.SetPlayerReady(playerID, req.Ready) {
		r.PrepareGame()
		h.broadcastGameInfo(r)
		r.StartGameLoop()
		slog.Info("game started", "room", r.Code)
		return
	}

	h.broadcastGameInfo(r)
}

// HandleDisconnect removes the player of a dropped connection.
func (h *LobbyHandler) HandleDisconnect(client *ws.Client) {
	h.removeFromGame(client)
}

func (h *LobbyHandler) removeFromGame(client *ws.Client) {
	playerID := h.router.GetPlayerID(client.ID)
	if playerID == "" {
		return
	}
	r := h.rm.FindRoomByPlayerID(playerID)
	h.router.UnregisterPlayer(client.ID)
	if r == nil {
		return
	}

	r.RemovePlayer(playerID)
	if r.IsEmpty() {
		r.StopGame(game.WinNone)
		h.rm.RemoveRoom(r.Code)
		return
	}
	h.broadcastGameInfo(r)
}

type gameInfoMessage struct {
	Code    string         `json:"code"`
	State   string         `json:"state"`
	HostID  string         `json:"host_id"`
	Players []*game.Player `json:"players"`
}

func (h *LobbyHandler) broadcastGameInfo(r *room.Room) {
	msg, err := ws.NewMessage(ws.TypeGameInfo, gameInfoMessage{
		Code:    r.Code,
		State:   r.State.String(),
		HostID:  r.HostID,
		Players: r.GetPlayerList(),
	})
	if err != nil {
		return
	}
	r.BroadcastMessage(msg)
}
