// Package boundary implements the shrinking play-area state machine. A
// circular boundary is fixed at game start from the centroid of the initial
// player positions, then alternates between a stable phase and a 30 second
// shrink phase. Players outside the boundary accrue time toward
// elimination.
package boundary

import (
	"time"

	"github.com/manhuntgg/manhunt-server/internal/geo"
)

// Phase is the boundary state machine phase.
type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseStable
	PhaseShrinking
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseStable:
		return "stable"
	case PhaseShrinking:
		return "shrinking"
	default:
		return "unknown"
	}
}

// Severity grades how far outside the boundary a player is.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityHigh
	SeveritySevere
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityHigh:
		return "high"
	case SeveritySevere:
		return "severe"
	default:
		return "unknown"
	}
}

// ShrinkWindow is the fixed duration of a shrink phase, during which the
// authoritative radius is interpolated from the old value down to the new.
const ShrinkWindow = 30 * time.Second

// Config holds per-game boundary parameters.
type Config struct {
	InitialRadiusMeters float64       `json:"initial_radius_meters"`
	ShrinkInterval      time.Duration `json:"shrink_interval"`
	ShrinkFraction      float64       `json:"shrink_fraction"` // portion removed per cycle, in (0,1)
	OutsideGrace        time.Duration `json:"outside_grace"`
	DamageEnabled       bool          `json:"damage_enabled"`
}

// PhaseChange records a completed phase transition.
type PhaseChange struct {
	From         Phase
	To           Phase
	RadiusMeters float64 // authoritative radius when the transition fired
}

// Warning reports a player outside the boundary this tick.
type Warning struct {
	PlayerID      string
	Severity      Severity
	OverageMeters float64
}

// Elimination reports a player whose outside accrual exhausted the grace
// period. Emitted at most once per player.
type Elimination struct {
	PlayerID string
	Outside  time.Duration
}

// Engine owns one game's boundary state. It is not safe for concurrent use;
// the owning evaluator serializes access.
type Engine struct {
	cfg Config

	phase         Phase
	center        geo.LatLng
	currentRadius float64 // radius at the start of the current phase
	nextRadius    float64
	phaseDeadline time.Time

	accrual    map[string]time.Duration
	eliminated map[string]bool
}

// New creates an engine in the Waiting phase.
func New(cfg Config) *Engine {
	return &Engine{
		cfg:        cfg,
		phase:      PhaseWaiting,
		accrual:    make(map[string]time.Duration),
		eliminated: make(map[string]bool),
	}
}

// Activate establishes the boundary from the first known player positions:
// center is their arithmetic mean and the radius starts at the configured
// initial value. No-op unless the engine is Waiting or positions is empty.
func (e *Engine) Activate(positions []geo.LatLng, now time.Time) *PhaseChange {
	if e.phase != PhaseWaiting || len(positions) == 0 {
		return nil
	}

	var lat, lng float64
	for _, p := range positions {
		lat += p.Lat
		lng += p.Lng
	}
	n := float64(len(positions))
	e.center = geo.LatLng{Lat: lat / n, Lng: lng / n}

	e.currentRadius = e.cfg.InitialRadiusMeters
	e.nextRadius = e.currentRadius * (1 - e.cfg.ShrinkFraction)
	e.phaseDeadline = now.Add(e.cfg.ShrinkInterval)
	e.phase = PhaseStable

	return &PhaseChange{From: PhaseWaiting, To: PhaseStable, RadiusMeters: e.currentRadius}
}

// Advance fires any phase transitions whose deadline has passed. A long gap
// between ticks may fire several transitions at once.
func (e *Engine) Advance(now time.Time) []PhaseChange {
	var changes []PhaseChange
	for e.phase != PhaseWaiting && !now.Before(e.phaseDeadline) {
		switch e.phase {
		case PhaseStable:
			at := e.phaseDeadline
			e.phase = PhaseShrinking
			e.phaseDeadline = at.Add(ShrinkWindow)
			changes = append(changes, PhaseChange{From: PhaseStable, To: PhaseShrinking, RadiusMeters: e.currentRadius})

		case PhaseShrinking:
			at := e.phaseDeadline
			e.currentRadius = e.nextRadius
			e.nextRadius = e.currentRadius * (1 - e.cfg.ShrinkFraction)
			e.phase = PhaseStable
			e.phaseDeadline = at.Add(e.cfg.ShrinkInterval)
			changes = append(changes, PhaseChange{From: PhaseShrinking, To: PhaseStable, RadiusMeters: e.currentRadius})
		}
	}
	return changes
}

// Radius returns the authoritative boundary radius at now. During a shrink
// phase the radius is linearly interpolated toward the next value, so a
// player can cross the boundary mid-shrink.
func (e *Engine) Radius(now time.Time) float64 {
	switch e.phase {
	case PhaseWaiting:
		return 0
	case PhaseShrinking:
		remaining := e.phaseDeadline.Sub(now)
		if remaining <= 0 {
			return e.nextRadius
		}
		if remaining >= ShrinkWindow {
			return e.currentRadius
		}
		progress := 1 - remaining.Seconds()/ShrinkWindow.Seconds()
		return e.currentRadius + (e.nextRadius-e.currentRadius)*progress
	default:
		return e.currentRadius
	}
}

// Track updates one player's outside-boundary accrual for a tick of length
// dt and returns the resulting warning and, at most once ever, an
// elimination. Eliminated players are terminal and produce nothing further.
func (e *Engine) Track(playerID string, pos geo.LatLng, dt time.Duration, now time.Time) (*Warning, *Elimination) {
	if e.phase == PhaseWaiting || e.eliminated[playerID] {
		return nil, nil
	}

	radius := e.Radius(now)
	dist := geo.DistanceMeters(pos, e.center)
	overage := dist - radius
	if overage <= 0 {
		e.accrual[playerID] = 0
		return nil, nil
	}

	e.accrual[playerID] += dt
	warning := &Warning{
		PlayerID:      playerID,
		Severity:      severityFor(overage),
		OverageMeters: overage,
	}

	if !e.cfg.DamageEnabled || e.accrual[playerID] < e.cfg.OutsideGrace {
		return warning, nil
	}

	e.eliminated[playerID] = true
	return warning, &Elimination{PlayerID: playerID, Outside: e.accrual[playerID]}
}

func severityFor(overage float64) Severity {
	switch {
	case overage > 100:
		return SeveritySevere
	case overage > 50:
		return SeverityHigh
	default:
		return SeverityLow
	}
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase { return e.phase }

// Center returns the boundary center; zero value while Waiting.
func (e *Engine) Center() geo.LatLng { return e.center }

// Eliminated reports whether the boundary has eliminated the player.
func (e *Engine) Eliminated(playerID string) bool { return e.eliminated[playerID] }

// Reset clears all accrual and elimination state, part of game teardown.
func (e *Engine) Reset() {
	e.phase = PhaseWaiting
	e.center = geo.LatLng{}
	e.currentRadius = 0
	e.nextRadius = 0
	e.phaseDeadline = time.Time{}
	e.accrual = make(map[string]time.Duration)
	e.eliminated = make(map[string]bool)
}
