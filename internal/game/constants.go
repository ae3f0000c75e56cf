package game

import "time"

// Player limits
const (
	MinPlayers = 2
	MaxPlayers = 16
)

// Game timing
const (
	GameDuration = 30 * time.Minute
	TickInterval = time.Second
)

// Default rule parameters, overridable per session at game start.
const (
	DefaultInitialRadiusMeters = 500.0
	DefaultShrinkInterval      = 2 * time.Minute
	DefaultShrinkFraction      = 0.15
	DefaultOutsideGrace        = 30 * time.Second
	DefaultRevengeDuration     = 30 * time.Second
)
