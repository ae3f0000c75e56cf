package game

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/manhuntgg/manhunt-server/internal/engine"
)

type Role int

const (
	RoleNone Role = iota
	RoleIT
	RoleRunner
)

func (r Role) String() string {
	switch r {
	case RoleIT:
		return "it"
	case RoleRunner:
		return "runner"
	default:
		return "none"
	}
}

// MarshalJSON serializes Role as a string.
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON deserializes Role from a string.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "it":
		*r = RoleIT
	case "runner":
		*r = RoleRunner
	default:
		*r = RoleNone
	}
	return nil
}

type Player struct {
	ID           string    `json:"id"`
	Nickname     string    `json:"nickname"`
	Role         Role      `json:"role"`
	Eliminated   bool      `json:"eliminated"`
	Ready        bool      `json:"ready"`
	LastReportAt time.Time `json:"-"`

	// LastPosition mirrors the evaluator's accepted position for snapshots.
	LastPosition *engine.Position `json:"last_position,omitempty"`
}

func NewPlayer(nickname string) *Player {
	return &Player{
		ID:       uuid.New().String(),
		Nickname: nickname,
		Role:     RoleNone,
	}
}

func (p *Player) SetRole(role Role) {
	p.Role = role
}

func (p *Player) Eliminate() {
	p.Eliminated = true
}

func (p *Player) IsAlive() bool {
	return !p.Eliminated
}

func (p *Player) Reset() {
	p.Eliminated = false
	p.Ready = false
	p.LastPosition = nil
	p.LastReportAt = time.Time{}
}
