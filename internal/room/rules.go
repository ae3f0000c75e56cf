package room

import (
	"errors"

	"github.com/manhuntgg/manhunt-server/internal/boundary"
	"github.com/manhuntgg/manhunt-server/internal/game"
	"github.com/manhuntgg/manhunt-server/internal/showdown"
)

// ErrGameInProgress is returned when rules are edited mid-game.
var ErrGameInProgress = errors.New("room: game in progress")

func boundaryDefaults() boundary.Config {
	return boundary.Config{
		InitialRadiusMeters: game.DefaultInitialRadiusMeters,
		ShrinkInterval:      game.DefaultShrinkInterval,
		ShrinkFraction:      game.DefaultShrinkFraction,
		OutsideGrace:        game.DefaultOutsideGrace,
		DamageEnabled:       true,
	}
}

func showdownDefaults() showdown.Config {
	return showdown.DefaultConfig()
}
