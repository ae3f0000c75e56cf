package handler

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/manhuntgg/manhunt-server/internal/engine"
	"github.com/manhuntgg/manhunt-server/internal/geo"
	"github.com/manhuntgg/manhunt-server/internal/room"
	"github.com/manhuntgg/manhunt-server/internal/ws"
)

// GameplayHandler handles in-game messages.
type GameplayHandler struct {
	rm     *room.Manager
	router *Router
}

// NewGameplayHandler creates a new gameplay handler.
func NewGameplayHandler(rm *room.Manager, router *Router) *GameplayHandler {
	return &GameplayHandler{rm: rm, router: router}
}

type positionUpdateRequest struct {
	Lat            float64   `json:"lat"`
	Lng            float64   `json:"lng"`
	AccuracyMeters float64   `json:"accuracy_meters,omitempty"`
	HeadingDegrees float64   `json:"heading_degrees,omitempty"`
	CapturedAt     time.Time `json:"captured_at"`
}

// HandlePositionUpdate handles player location reports. Validation beyond
// JSON shape lives in the evaluator, which drops invalid and stale reports.
func (h *GameplayHandler) HandlePositionUpdate(client *ws.Client, msg ws.Message) {
	var req positionUpdateRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid position data"))
		return
	}

	playerID, r := h.resolve(client)
	if r == nil {
		return
	}

	if req.CapturedAt.IsZero() {
		req.CapturedAt = time.Now()
	}
	r.HandlePosition(playerID, engine.Position{
		Coord:          geo.LatLng{Lat: req.Lat, Lng: req.Lng},
		AccuracyMeters: req.AccuracyMeters,
		HeadingDegrees: req.HeadingDegrees,
		CapturedAt:     req.CapturedAt,
	})

	slog.Debug("position update", "player", playerID, "lat", req.Lat, "lng", req.Lng)
}

type tagAttemptRequest struct {
	TargetID string `json:"target_id"`
}

type tagResultMessage struct {
	TargetID string `json:"target_id"`
	Allowed  bool   `json:"allowed"`
	Reason   string `json:"reason,omitempty"`
}

// HandleTagAttempt runs the tag through the room's legality check and
// replies with the decision.
func (h *GameplayHandler) HandleTagAttempt(client *ws.Client, msg ws.Message) {
	var req tagAttemptRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil || req.TargetID == "" {
		client.SendMessage(ws.NewErrorMessage("target_id is required"))
		return
	}

	playerID, r := h.resolve(client)
	if r == nil {
		return
	}

	decision := r.HandleTagAttempt(playerID, req.TargetID)
	resp, _ := ws.NewMessage(ws.TypeTagResult, tagResultMessage{
		TargetID: req.TargetID,
		Allowed:  decision.Allowed,
		Reason:   decision.Reason,
	})
	client.SendMessage(resp)
}

// resolve maps a client to its player ID and room.
func (h *GameplayHandler) resolve(client *ws.Client) (string, *room.Room) {
	playerID := h.router.GetPlayerID(client.ID)
	if playerID == "" {
		return "", nil
	}
	return playerID, h.rm.FindRoomByPlayerID(playerID)
}
