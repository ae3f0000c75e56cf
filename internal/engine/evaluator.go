// Package engine glues the boundary, showdown and tag subsystems into one
// per-game evaluator. Each game constructs its own Evaluator; there is no
// shared state between games. The evaluator is event-driven: position
// updates and tag attempts mutate state, Tick advances time-based machines,
// and Drain hands the accumulated typed events to the caller.
//
// The evaluator is not safe for concurrent use. The owning session applies
// all inputs from a single goroutine (or under its own lock), which is what
// makes each tick atomic.
package engine

import (
	"errors"
	"log/slog"
	"time"

	"github.com/manhuntgg/manhunt-server/internal/boundary"
	"github.com/manhuntgg/manhunt-server/internal/geo"
	"github.com/manhuntgg/manhunt-server/internal/showdown"
	"github.com/manhuntgg/manhunt-server/internal/tag"
	"github.com/manhuntgg/manhunt-server/internal/zone"
)

// Position is one player location report.
type Position struct {
	Coord          geo.LatLng `json:"coord"`
	AccuracyMeters float64    `json:"accuracy_meters,omitempty"`
	HeadingDegrees float64    `json:"heading_degrees,omitempty"`
	CapturedAt     time.Time  `json:"captured_at"`
}

// Config is the rule configuration of one game.
type Config struct {
	Boundary        boundary.Config   `json:"boundary"`
	Showdown        showdown.Config   `json:"showdown"`
	Zones           zone.Set          `json:"zones"`
	NoTagWindows    []zone.TimeWindow `json:"no_tag_windows"`
	RevengeDuration time.Duration     `json:"revenge_duration"`
}

// ErrBoundaryRadius is returned when boundary damage is enabled without a
// positive initial radius: every position would count as outside and the
// grace period would eliminate the whole roster.
var ErrBoundaryRadius = errors.New("engine: boundary damage enabled without a positive initial radius")

// Validate rejects malformed zone, window and boundary configuration.
// Other zero engine parameters just disable the corresponding mechanic.
func (c Config) Validate() error {
	if c.Boundary.DamageEnabled && c.Boundary.InitialRadiusMeters <= 0 {
		return ErrBoundaryRadius
	}
	if err := c.Zones.Validate(); err != nil {
		return err
	}
	return zone.ValidateWindows(c.NoTagWindows)
}

// Stats counts inputs dropped at the engine boundary, for observability.
type Stats struct {
	StalePositions   int `json:"stale_positions"`
	InvalidPositions int `json:"invalid_positions"`
}

// Evaluator owns all rule-engine state of a single game.
type Evaluator struct {
	cfg   Config
	clock Clock

	boundary *boundary.Engine
	showdown *showdown.Engine
	revenge  *tag.RevengeRegistry
	judge    *tag.Judge

	itID     string
	last     map[string]Position
	lastTick time.Time
	events   []Event
	stats    Stats
	closed   bool
}

// New constructs an evaluator for one game. clock may be nil, defaulting to
// the system clock.
func New(cfg Config, clock Clock) *Evaluator {
	if clock == nil {
		clock = SystemClock()
	}
	revenge := tag.NewRevengeRegistry()
	return &Evaluator{
		cfg:      cfg,
		clock:    clock,
		boundary: boundary.New(cfg.Boundary),
		showdown: showdown.New(cfg.Showdown),
		revenge:  revenge,
		judge:    tag.NewJudge(cfg.Zones, cfg.NoTagWindows, revenge),
		last:     make(map[string]Position),
	}
}

// SetIT designates the pursuing player.
func (e *Evaluator) SetIT(playerID string) {
	e.itID = playerID
}

// IT returns the current pursuer's ID.
func (e *Evaluator) IT() string { return e.itID }

// HandlePosition records a player's position report. Non-finite coordinates
// and out-of-order reports are dropped and counted; they are not errors
// visible to the caller.
func (e *Evaluator) HandlePosition(playerID string, pos Position) {
	if e.closed {
		return
	}
	if !pos.Coord.Valid() {
		e.stats.InvalidPositions++
		slog.Warn("dropping invalid position", "player", playerID, "lat", pos.Coord.Lat, "lng", pos.Coord.Lng)
		return
	}
	if prev, ok := e.last[playerID]; ok && pos.CapturedAt.Before(prev.CapturedAt) {
		e.stats.StalePositions++
		slog.Debug("dropping stale position", "player", playerID, "captured_at", pos.CapturedAt)
		return
	}
	e.last[playerID] = pos
}

// Position returns the last accepted position for a player.
func (e *Evaluator) Position(playerID string) (Position, bool) {
	p, ok := e.last[playerID]
	return p, ok
}

// Tick advances every time-driven machine to the clock's current time and
// queues the resulting events. All transitions of one tick happen before
// the method returns, so no caller ever observes a half-updated state.
func (e *Evaluator) Tick() {
	if e.closed {
		return
	}
	now := e.clock.Now()

	dt := time.Duration(0)
	if !e.lastTick.IsZero() {
		dt = now.Sub(e.lastTick)
	}
	e.lastTick = now

	// Establish the boundary once the first positions are known.
	if e.boundary.Phase() == boundary.PhaseWaiting && len(e.last) > 0 {
		coords := make([]geo.LatLng, 0, len(e.last))
		for _, p := range e.last {
			coords = append(coords, p.Coord)
		}
		if change := e.boundary.Activate(coords, now); change != nil {
			e.events = append(e.events, phaseEvent(*change))
			slog.Info("boundary established", "center", e.boundary.Center(), "radius", change.RadiusMeters)
		}
	}

	for _, change := range e.boundary.Advance(now) {
		e.events = append(e.events, phaseEvent(change))
		slog.Info("boundary phase change", "to", change.To.String(), "radius", change.RadiusMeters)
	}

	if e.boundary.Phase() != boundary.PhaseWaiting {
		e.events = append(e.events, Event{
			Type:         EventBoundaryRadius,
			Phase:        e.boundary.Phase().String(),
			RadiusMeters: e.boundary.Radius(now),
		})

		if dt > 0 {
			for playerID, pos := range e.last {
				warning, elim := e.boundary.Track(playerID, pos.Coord, dt, now)
				if warning != nil {
					e.events = append(e.events, warningEvent(*warning))
				}
				if elim != nil {
					e.events = append(e.events, Event{
						Type:     EventElimination,
						PlayerID: elim.PlayerID,
						Duration: elim.Outside,
					})
					slog.Info("player eliminated by boundary", "player", elim.PlayerID, "outside", elim.Outside)
				}
			}
		}
	}

	// Pairwise showdown observations between IT and every live target.
	if itPos, ok := e.last[e.itID]; ok {
		for playerID, pos := range e.last {
			if playerID == e.itID || e.boundary.Eliminated(playerID) {
				continue
			}
			d := geo.DistanceMeters(itPos.Coord, pos.Coord)
			for _, ev := range e.showdown.Observe(e.itID, playerID, d, now) {
				e.events = append(e.events, showdownEvent(ev))
			}
		}
	}
	for _, ev := range e.showdown.Pulse(now) {
		e.events = append(e.events, showdownEvent(ev))
	}

	e.revenge.Prune(now)
}

// HandleTag evaluates a tag attempt and, when legal, commits it: the target
// becomes IT, a revenge window protects the previous pursuer, and every
// showdown involving the tagged player is force-ended. Returns the
// decision; the matching events are queued either way.
func (e *Evaluator) HandleTag(taggerID, targetID string) tag.Decision {
	if e.closed {
		return tag.Decision{Allowed: false, Reason: "game over"}
	}
	now := e.clock.Now()

	req := tag.Request{TaggerID: taggerID, TargetID: targetID, Now: now}
	if p, ok := e.last[taggerID]; ok {
		c := p.Coord
		req.TaggerPos = &c
	}
	if p, ok := e.last[targetID]; ok {
		c := p.Coord
		req.TargetPos = &c
	}

	decision := e.judge.CanTag(req)
	if !decision.Allowed {
		e.events = append(e.events, Event{
			Type:     EventTagDenied,
			PlayerID: taggerID,
			TargetID: targetID,
			Reason:   decision.Reason,
		})
		slog.Debug("tag denied", "tagger", taggerID, "target", targetID, "reason", decision.Reason)
		return decision
	}

	// The tagged player takes over as IT and may not immediately re-tag
	// the player who caught them.
	e.revenge.Add(taggerID, targetID, now.Add(e.cfg.RevengeDuration), now)
	e.itID = targetID

	for _, ev := range e.showdown.ForceEnd(targetID, now) {
		e.events = append(e.events, showdownEvent(ev))
	}

	e.events = append(e.events, Event{
		Type:     EventTagCommitted,
		PlayerID: taggerID,
		TargetID: targetID,
	})
	slog.Info("tag committed", "tagger", taggerID, "target", targetID)
	return decision
}

// Eliminated reports whether the boundary has eliminated the player.
func (e *Evaluator) Eliminated(playerID string) bool {
	return e.boundary.Eliminated(playerID)
}

// BoundaryPhase returns the current boundary phase.
func (e *Evaluator) BoundaryPhase() boundary.Phase { return e.boundary.Phase() }

// BoundaryRadius returns the authoritative boundary radius right now.
func (e *Evaluator) BoundaryRadius() float64 { return e.boundary.Radius(e.clock.Now()) }

// Drain returns all queued events and clears the queue.
func (e *Evaluator) Drain() []Event {
	events := e.events
	e.events = nil
	return events
}

// Stats returns the drop counters.
func (e *Evaluator) Stats() Stats { return e.stats }

// Close tears the evaluator down: sessions, revenge windows, boundary
// accrual and pending events are all cleared in one step. Further inputs
// are ignored.
func (e *Evaluator) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.showdown.Reset()
	e.revenge.Clear()
	e.boundary.Reset()
	e.last = make(map[string]Position)
	e.events = nil
}
