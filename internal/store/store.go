package store

import (
	"context"
	"time"
)

// MatchStore defines the interface for persistent match history.
type MatchStore interface {
	// RecordMatchStart inserts a new match row when a game begins.
	RecordMatchStart(ctx context.Context, matchID, roomCode string, playerCount int) error
	// RecordTag appends a committed tag to the match log.
	RecordTag(ctx context.Context, matchID, taggerID, targetID string, at time.Time) error
	// RecordElimination appends a boundary elimination to the match log.
	RecordElimination(ctx context.Context, matchID, playerID string, at time.Time) error
	// RecordMatchResult finalizes a match with its winner.
	RecordMatchResult(ctx context.Context, matchID, winner string, endedAt time.Time) error
	// RecentMatches returns the most recently started matches, newest first.
	RecentMatches(ctx context.Context, limit int) ([]MatchSummary, error)
	// Close releases database resources.
	Close() error
}

// MatchSummary is one row of match history.
type MatchSummary struct {
	ID          string     `json:"id"`
	RoomCode    string     `json:"room_code"`
	PlayerCount int        `json:"player_count"`
	Winner      string     `json:"winner"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
}

// Nop returns a MatchStore that records nothing. Used when no database is
// configured; gameplay does not depend on persistence.
func Nop() MatchStore { return nopStore{} }

type nopStore struct{}

func (nopStore) RecordMatchStart(context.Context, string, string, int) error { return nil }

func (nopStore) RecordTag(context.Context, string, string, string, time.Time) error { return nil }

func (nopStore) RecordElimination(context.Context, string, string, time.Time) error { return nil }

func (nopStore) RecordMatchResult(context.Context, string, string, time.Time) error { return nil }

func (nopStore) RecentMatches(context.Context, int) ([]MatchSummary, error) { return nil, nil }

func (nopStore) Close() error { return nil }
