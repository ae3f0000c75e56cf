package room

import (
	"log/slog"
	"sync"
	"time"

	"github.com/manhuntgg/manhunt-server/internal/engine"
	"github.com/manhuntgg/manhunt-server/internal/store"
)

// Manager manages all active rooms. Each room owns its own evaluator, so
// scaling is one evaluator per active game with no shared engine state.
type Manager struct {
	rooms        map[string]*Room // code -> room
	matches      store.MatchStore
	clock        engine.Clock
	tickInterval time.Duration
	mu           sync.RWMutex
}

// NewManager creates a new room manager. matches may be nil for a no-op
// store; clock may be nil for the system clock.
func NewManager(matches store.MatchStore, clock engine.Clock) *Manager {
	if matches == nil {
		matches = store.Nop()
	}
	return &Manager{
		rooms:   make(map[string]*Room),
		matches: matches,
		clock:   clock,
	}
}

// SetTickInterval overrides the game tick interval for rooms created after
// the call. Zero or negative values are ignored.
func (m *Manager) SetTickInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickInterval = d
}

// CreateRoom creates a new room and returns it.
func (m *Manager) CreateRoom() *Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing := make(map[string]bool, len(m.rooms))
	for code := range m.rooms {
		existing[code] = true
	}

	code := GenerateCode(existing)
	room := NewRoom(code, m.matches, m.clock)
	if m.tickInterval > 0 {
		room.tickInterval = m.tickInterval
	}
	m.rooms[code] = room

	slog.Info("room created", "code", code)
	return room
}

// GetRoom returns a room by its code.
func (m *Manager) GetRoom(code string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[code]
}

// RemoveRoom removes a room by its code.
func (m *Manager) RemoveRoom(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, code)
	slog.Info("room removed", "code", code)
}

// RoomCount returns the number of active rooms.
func (m *Manager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// FindRoomByPlayerID finds the room containing a player.
func (m *Manager) FindRoomByPlayerID(playerID string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, room := range m.rooms {
		room.mu.RLock()
		_, exists := room.Players[playerID]
		room.mu.RUnlock()
		if exists {
			return room
		}
	}
	return nil
}
