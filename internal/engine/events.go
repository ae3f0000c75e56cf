package engine

import (
	"time"

	"github.com/manhuntgg/manhunt-server/internal/boundary"
	"github.com/manhuntgg/manhunt-server/internal/showdown"
)

// EventType discriminates evaluator events.
type EventType string

const (
	EventBoundaryPhase   EventType = "boundary_phase"
	EventBoundaryRadius  EventType = "boundary_radius"
	EventBoundaryWarning EventType = "boundary_warning"
	EventElimination     EventType = "elimination"
	EventShowdownStarted EventType = "showdown_started"
	EventShowdownUpdated EventType = "showdown_updated"
	EventShowdownPulse   EventType = "showdown_pulse"
	EventShowdownEnded   EventType = "showdown_ended"
	EventTagCommitted    EventType = "tag_committed"
	EventTagDenied       EventType = "tag_denied"
)

// Event is one typed notification produced by the evaluator. The caller
// drains events after each tick; the evaluator never calls back into the
// caller.
type Event struct {
	Type EventType `json:"type"`

	// Boundary fields
	Phase         string  `json:"phase,omitempty"`
	RadiusMeters  float64 `json:"radius_meters,omitempty"`
	Severity      string  `json:"severity,omitempty"`
	OverageMeters float64 `json:"overage_meters,omitempty"`

	// Showdown fields
	PairKey        string        `json:"pair_key,omitempty"`
	DistanceMeters float64       `json:"distance_meters,omitempty"`
	Intensity      int           `json:"intensity,omitempty"`
	Duration       time.Duration `json:"duration,omitempty"`

	// Participants: the affected player, or tagger/target for tag events.
	PlayerID string `json:"player_id,omitempty"`
	TargetID string `json:"target_id,omitempty"`

	// Tag fields
	Reason string `json:"reason,omitempty"`
}

func phaseEvent(c boundary.PhaseChange) Event {
	return Event{
		Type:         EventBoundaryPhase,
		Phase:        c.To.String(),
		RadiusMeters: c.RadiusMeters,
	}
}

func warningEvent(w boundary.Warning) Event {
	return Event{
		Type:          EventBoundaryWarning,
		PlayerID:      w.PlayerID,
		Severity:      w.Severity.String(),
		OverageMeters: w.OverageMeters,
	}
}

func showdownEvent(ev showdown.Event) Event {
	e := Event{
		PairKey:        ev.Key,
		PlayerID:       ev.ITID,
		TargetID:       ev.TargetID,
		DistanceMeters: ev.DistanceMeters,
		Intensity:      ev.Intensity,
		Duration:       ev.Duration,
	}
	switch ev.Type {
	case showdown.EventStarted:
		e.Type = EventShowdownStarted
	case showdown.EventUpdated:
		e.Type = EventShowdownUpdated
	case showdown.EventPulse:
		e.Type = EventShowdownPulse
	case showdown.EventEnded:
		e.Type = EventShowdownEnded
	}
	return e
}
