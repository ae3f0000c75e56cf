package room

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/manhuntgg/manhunt-server/internal/engine"
	"github.com/manhuntgg/manhunt-server/internal/game"
	"github.com/manhuntgg/manhunt-server/internal/store"
	"github.com/manhuntgg/manhunt-server/internal/tag"
	"github.com/manhuntgg/manhunt-server/internal/ws"
)

const storeTimeout = 3 * time.Second

// Room is one game: a joinable roster plus, while playing, a rules
// evaluator of its own. Rooms never share evaluator state.
type Room struct {
	Code    string                  `json:"code"`
	State   game.SessionState       `json:"state"`
	Players map[string]*game.Player `json:"players"`
	HostID  string                  `json:"host_id"`

	// Client mapping: player ID -> ws client
	clients map[string]*ws.Client

	// Rule configuration applied at game start.
	Rules engine.Config `json:"rules"`

	eval    *engine.Evaluator
	clock   engine.Clock
	matches store.MatchStore
	matchID string

	// Game loop control
	stopCh        chan struct{}
	remainingTime time.Duration
	tickInterval  time.Duration

	mu sync.RWMutex
}

// NewRoom creates a new room with the given code. The clock is handed to the
// evaluator at game start; nil means the system clock.
func NewRoom(code string, matches store.MatchStore, clock engine.Clock) *Room {
	if matches == nil {
		matches = store.Nop()
	}
	return &Room{
		Code:         code,
		State:        game.StateWaiting,
		Players:      make(map[string]*game.Player),
		clients:      make(map[string]*ws.Client),
		Rules:        DefaultRules(),
		clock:        clock,
		matches:      matches,
		tickInterval: game.TickInterval,
	}
}

// DefaultRules returns the stock rule configuration of a new room.
func DefaultRules() engine.Config {
	return engine.Config{
		Boundary: boundaryDefaults(),
		Showdown: showdownDefaults(),

		RevengeDuration: game.DefaultRevengeDuration,
	}
}

// AddPlayer adds a player to the room. Returns false if the room is full.
func (r *Room) AddPlayer(player *game.Player, client *ws.Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.Players) >= game.MaxPlayers {
		return false
	}

	r.Players[player.ID] = player
	r.clients[player.ID] = client

	if len(r.Players) == 1 {
		r.HostID = player.ID
	}
	return true
}

// RemovePlayer removes a player from the room.
func (r *Room) RemovePlayer(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.Players, playerID)
	delete(r.clients, playerID)

	// Transfer host if the host left
	if r.HostID == playerID && len(r.Players) > 0 {
		for id := range r.Players {
			r.HostID = id
			break
		}
	}
}

// PlayerCount returns the number of players.
func (r *Room) PlayerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Players)
}

// SetPlayerReady sets a player's ready status and returns whether the room
// can start. This must be used instead of setting Ready directly to avoid
// race conditions. Ready toggles only exist in the lobby: once the game is
// running (or over) the report is ignored, so a stray duplicate can never
// re-trigger a start.
func (r *Room) SetPlayerReady(playerID string, ready bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.State != game.StateWaiting {
		return false
	}

	if p, ok := r.Players[playerID]; ok {
		p.Ready = ready
	}

	return r.allReady()
}

// allReady checks if all players are ready and there are enough to start.
// Caller must hold r.mu.
func (r *Room) allReady() bool {
	if len(r.Players) < game.MinPlayers {
		return false
	}
	for _, p := range r.Players {
		if !p.Ready {
			return false
		}
	}
	return true
}

// GetPlayerList returns a slice of all players.
func (r *Room) GetPlayerList() []*game.Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	players := make([]*game.Player, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, p)
	}
	return players
}

// BroadcastMessage sends a message to all players in the room.
func (r *Room) BroadcastMessage(msg ws.Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, client := range r.clients {
		client.SendMessage(msg)
	}
}

// SendToPlayer sends a message to a specific player.
func (r *Room) SendToPlayer(playerID string, msg ws.Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if client, ok := r.clients[playerID]; ok {
		client.SendMessage(msg)
	}
}

// GetClient returns the WebSocket client for a player.
func (r *Room) GetClient(playerID string) *ws.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clients[playerID]
}

// IsEmpty returns true if the room has no players.
func (r *Room) IsEmpty() bool {
	return r.PlayerCount() == 0
}

// SetRules replaces the rule configuration. Rejected mid-game.
func (r *Room) SetRules(rules engine.Config) error {
	if err := rules.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.State == game.StatePlaying {
		return ErrGameInProgress
	}
	r.Rules = rules
	return nil
}

// PrepareGame assigns roles, constructs the evaluator and transitions to
// playing. One random ready player becomes IT; everyone else runs. Must be
// called before broadcasting game_start so clients receive correct roles.
// A room that is already playing keeps its evaluator and timer untouched:
// restarting would wipe boundary accrual, live showdowns and revenge
// windows, and leak a second game loop.
func (r *Room) PrepareGame() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.State != game.StateWaiting {
		return
	}

	r.State = game.StatePlaying
	r.remainingTime = game.GameDuration
	r.stopCh = make(chan struct{})
	r.matchID = uuid.New().String()

	players := make([]*game.Player, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, p)
	}
	it := players[rand.Intn(len(players))]
	for _, p := range players {
		if p == it {
			p.SetRole(game.RoleIT)
		} else {
			p.SetRole(game.RoleRunner)
		}
	}

	r.eval = engine.New(r.Rules, r.clock)
	r.eval.SetIT(it.ID)

	r.recordAsync(func(ctx context.Context) error {
		return r.matches.RecordMatchStart(ctx, r.matchID, r.Code, len(players))
	})

	slog.Info("game prepared", "room", r.Code, "players", len(players), "it", it.Nickname)
}

// StartGameLoop starts the game tick loop. Must be called after PrepareGame
// and broadcasting game_start.
func (r *Room) StartGameLoop() {
	go r.gameLoop()
}

// HandlePosition feeds a player's position report into the evaluator.
func (r *Room) HandlePosition(playerID string, pos engine.Position) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.State != game.StatePlaying {
		return
	}
	p, ok := r.Players[playerID]
	if !ok || p.Eliminated {
		return
	}

	r.eval.HandlePosition(playerID, pos)
	if accepted, ok := r.eval.Position(playerID); ok {
		p.LastPosition = &accepted
		p.LastReportAt = accepted.CapturedAt
	}
}

// HandleTagAttempt runs the legality check and, when allowed, commits the
// tag: roles rotate so the tagged player becomes IT. Returns the decision
// for the immediate reply; the matching events reach everyone on the next
// tick broadcast.
func (r *Room) HandleTagAttempt(taggerID, targetID string) tag.Decision {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.State != game.StatePlaying {
		return tag.Decision{Reason: "game is not running"}
	}
	tagger, ok := r.Players[taggerID]
	if !ok {
		return tag.Decision{Reason: "unknown tagger"}
	}
	target, ok := r.Players[targetID]
	if !ok || target.Eliminated {
		return tag.Decision{Reason: "unknown or eliminated target"}
	}
	if tagger.Role != game.RoleIT {
		return tag.Decision{Reason: "only the pursuer can tag"}
	}

	decision := r.eval.HandleTag(taggerID, targetID)
	if !decision.Allowed {
		return decision
	}

	tagger.SetRole(game.RoleRunner)
	target.SetRole(game.RoleIT)

	matchID := r.matchID
	at := time.Now()
	r.recordAsync(func(ctx context.Context) error {
		return r.matches.RecordTag(ctx, matchID, taggerID, targetID, at)
	})
	return decision
}

// StopGame stops the game loop and transitions to ended state.
func (r *Room) StopGame(result game.WinResult) {
	r.mu.Lock()

	if r.State != game.StatePlaying {
		r.mu.Unlock()
		return
	}

	r.State = game.StateEnded

	// Signal the game loop to stop
	select {
	case <-r.stopCh:
		// Already closed
	default:
		close(r.stopCh)
	}

	// Teardown is all-or-nothing: sessions, revenge windows and accrual
	// all go with the evaluator.
	r.eval.Close()

	matchID := r.matchID
	r.mu.Unlock()

	r.recordAsync(func(ctx context.Context) error {
		return r.matches.RecordMatchResult(ctx, matchID, result.String(), time.Now())
	})

	// Broadcast game over
	msg, _ := ws.NewMessage(ws.TypeGameOver, gameOverMessage{
		Winner: result.String(),
	})
	r.BroadcastMessage(msg)

	slog.Info("game ended", "room", r.Code, "winner", result.String())
}

// Reset resets the room state to waiting, preserving players.
func (r *Room) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.State = game.StateWaiting
	for _, p := range r.Players {
		p.Reset()
	}
}

// RemainingTime returns the remaining game time.
func (r *Room) RemainingTime() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.remainingTime
}

func (r *Room) recordAsync(fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			slog.Error("match store write failed", "room", r.Code, "error", err)
		}
	}()
}

type gameOverMessage struct {
	Winner string `json:"winner"`
}

type gameStateMessage struct {
	RemainingTime  float64            `json:"remaining_time"`
	BoundaryRadius float64            `json:"boundary_radius"`
	BoundaryPhase  string             `json:"boundary_phase"`
	Players        []playerStateEntry `json:"players"`
}

type playerStateEntry struct {
	ID         string  `json:"id"`
	Role       string  `json:"role"`
	Eliminated bool    `json:"eliminated"`
	Lat        float64 `json:"lat,omitempty"`
	Lng        float64 `json:"lng,omitempty"`
}

// gameLoop runs the game tick loop. Each tick advances the evaluator,
// drains its events, applies eliminations to the roster and broadcasts the
// results, in that order, so clients never see a half-applied tick.
func (r *Room) gameLoop() {
	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.mu.Lock()
			r.remainingTime -= r.tickInterval
			timerExpired := r.remainingTime <= 0

			r.eval.Tick()
			events := r.eval.Drain()

			for _, ev := range events {
				if ev.Type != engine.EventElimination {
					continue
				}
				if p, ok := r.Players[ev.PlayerID]; ok {
					p.Eliminate()
				}
				matchID := r.matchID
				playerID := ev.PlayerID
				r.recordAsync(func(ctx context.Context) error {
					return r.matches.RecordElimination(ctx, matchID, playerID, time.Now())
				})
			}

			playerList := make([]*game.Player, 0, len(r.Players))
			entries := make([]playerStateEntry, 0, len(r.Players))
			for _, p := range r.Players {
				playerList = append(playerList, p)
				entry := playerStateEntry{
					ID:         p.ID,
					Role:       p.Role.String(),
					Eliminated: p.Eliminated,
				}
				if p.LastPosition != nil {
					entry.Lat = p.LastPosition.Coord.Lat
					entry.Lng = p.LastPosition.Coord.Lng
				}
				entries = append(entries, entry)
			}

			remaining := r.remainingTime.Seconds()
			if remaining < 0 {
				remaining = 0
			}
			state := gameStateMessage{
				RemainingTime:  remaining,
				BoundaryRadius: r.eval.BoundaryRadius(),
				BoundaryPhase:  r.eval.BoundaryPhase().String(),
				Players:        entries,
			}
			r.mu.Unlock()

			for _, ev := range events {
				msg, err := ws.NewMessage(ws.TypeEngineEvent, ev)
				if err != nil {
					continue
				}
				r.BroadcastMessage(msg)
			}

			msg, _ := ws.NewMessage(ws.TypeGameState, state)
			r.BroadcastMessage(msg)

			// Check win conditions
			if game.CheckITWin(playerList) {
				r.StopGame(game.WinIT)
				return
			}
			if game.CheckRunnersWin(playerList, timerExpired) {
				r.StopGame(game.WinRunners)
				return
			}
			if timerExpired {
				r.StopGame(game.WinIT)
				return
			}
		}
	}
}
