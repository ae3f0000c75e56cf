// Package showdown tracks pairwise proximity sessions between the pursuer
// and a target. Sessions start inside the trigger distance and end only
// beyond a larger exit distance (hysteresis) after a minimum duration, so a
// chase does not flicker on and off at the threshold.
package showdown

import (
	"math"
	"strings"
	"time"
)

// Config holds per-game showdown parameters.
type Config struct {
	TriggerDistanceMeters      float64       `json:"trigger_distance_meters"`
	ExitDistanceMeters         float64       `json:"exit_distance_meters"`
	MinIntensityDistanceMeters float64       `json:"min_intensity_distance_meters"`
	MinDuration                time.Duration `json:"min_duration"`
	PulseInterval              time.Duration `json:"pulse_interval"`
}

// DefaultConfig returns the stock tuning: trigger 100 m, exit 150 m, full
// intensity at 10 m, 10 s duration floor, pulse every 3 s.
func DefaultConfig() Config {
	return Config{
		TriggerDistanceMeters:      100,
		ExitDistanceMeters:         150,
		MinIntensityDistanceMeters: 10,
		MinDuration:                10 * time.Second,
		PulseInterval:              3 * time.Second,
	}
}

// EventType discriminates showdown events.
type EventType int

const (
	EventStarted EventType = iota
	EventUpdated
	EventPulse
	EventEnded
)

func (t EventType) String() string {
	switch t {
	case EventStarted:
		return "started"
	case EventUpdated:
		return "updated"
	case EventPulse:
		return "pulse"
	case EventEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Event is one showdown lifecycle notification.
type Event struct {
	Type           EventType
	Key            string
	ITID           string
	TargetID       string
	DistanceMeters float64
	Intensity      int
	Duration       time.Duration // set on EventEnded
}

// Session is one live proximity session between an unordered pair.
type Session struct {
	Key            string
	ITID           string
	TargetID       string
	DistanceMeters float64
	Intensity      int
	StartedAt      time.Time

	lastPulse time.Time
}

// PairKey returns the canonical key for an unordered participant pair.
func PairKey(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + "|" + b
}

// Engine owns all live sessions of one game, keyed by pair. Not safe for
// concurrent use; the owning evaluator serializes access.
type Engine struct {
	cfg      Config
	sessions map[string]*Session
}

// New creates an engine with no live sessions.
func New(cfg Config) *Engine {
	return &Engine{
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// Intensity maps a distance to the 0-100 intensity scale: 100 at or below
// the minimum-intensity distance, 0 at the trigger distance.
func (e *Engine) Intensity(distance float64) int {
	span := e.cfg.TriggerDistanceMeters - e.cfg.MinIntensityDistanceMeters
	if span <= 0 {
		return 0
	}
	raw := math.Round(100 * (e.cfg.TriggerDistanceMeters - distance) / span)
	return int(math.Max(0, math.Min(100, raw)))
}

// Observe applies one (pursuer, target, distance) observation and returns
// any resulting events. A new session starts when the pair has none and the
// distance is inside the trigger; an existing session ends only past the
// exit distance once the duration floor has elapsed, and updates otherwise.
func (e *Engine) Observe(itID, targetID string, distance float64, now time.Time) []Event {
	key := PairKey(itID, targetID)
	s, ok := e.sessions[key]

	if !ok {
		if distance > e.cfg.TriggerDistanceMeters {
			return nil
		}
		s = &Session{
			Key:            key,
			ITID:           itID,
			TargetID:       targetID,
			DistanceMeters: distance,
			Intensity:      e.Intensity(distance),
			StartedAt:      now,
			lastPulse:      now,
		}
		e.sessions[key] = s
		return []Event{{
			Type:           EventStarted,
			Key:            key,
			ITID:           itID,
			TargetID:       targetID,
			DistanceMeters: distance,
			Intensity:      s.Intensity,
		}}
	}

	if distance > e.cfg.ExitDistanceMeters && now.Sub(s.StartedAt) >= e.cfg.MinDuration {
		delete(e.sessions, key)
		return []Event{{
			Type:           EventEnded,
			Key:            key,
			ITID:           s.ITID,
			TargetID:       s.TargetID,
			DistanceMeters: distance,
			Duration:       now.Sub(s.StartedAt),
		}}
	}

	s.DistanceMeters = distance
	s.Intensity = e.Intensity(distance)
	return []Event{{
		Type:           EventUpdated,
		Key:            key,
		ITID:           s.ITID,
		TargetID:       s.TargetID,
		DistanceMeters: distance,
		Intensity:      s.Intensity,
	}}
}

// Pulse emits a pulse event for every session whose pulse interval has
// elapsed. Driven from the game tick rather than per-session timers so a
// single tick observes a consistent session map.
func (e *Engine) Pulse(now time.Time) []Event {
	var events []Event
	for _, s := range e.sessions {
		if now.Sub(s.lastPulse) < e.cfg.PulseInterval {
			continue
		}
		s.lastPulse = now
		events = append(events, Event{
			Type:           EventPulse,
			Key:            s.Key,
			ITID:           s.ITID,
			TargetID:       s.TargetID,
			DistanceMeters: s.DistanceMeters,
			Intensity:      s.Intensity,
		})
	}
	return events
}

// ForceEnd ends every session the player participates in, regardless of
// distance or elapsed duration. Used when a tag resolves the chase.
func (e *Engine) ForceEnd(playerID string, now time.Time) []Event {
	var events []Event
	for key, s := range e.sessions {
		if s.ITID != playerID && s.TargetID != playerID {
			continue
		}
		delete(e.sessions, key)
		events = append(events, Event{
			Type:           EventEnded,
			Key:            key,
			ITID:           s.ITID,
			TargetID:       s.TargetID,
			DistanceMeters: s.DistanceMeters,
			Duration:       now.Sub(s.StartedAt),
		})
	}
	return events
}

// Session returns the live session for the pair, or nil.
func (e *Engine) Session(a, b string) *Session {
	return e.sessions[PairKey(a, b)]
}

// ActiveCount returns the number of live sessions.
func (e *Engine) ActiveCount() int { return len(e.sessions) }

// Reset drops all sessions without emitting events, part of game teardown.
func (e *Engine) Reset() {
	e.sessions = make(map[string]*Session)
}
