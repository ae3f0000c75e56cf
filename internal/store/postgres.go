package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS matches (
    id TEXT PRIMARY KEY,
    room_code TEXT NOT NULL,
    player_count INT NOT NULL,
    winner TEXT NOT NULL DEFAULT '',
    started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    ended_at TIMESTAMPTZ
);
CREATE TABLE IF NOT EXISTS match_events (
    id BIGSERIAL PRIMARY KEY,
    match_id TEXT NOT NULL REFERENCES matches(id),
    kind TEXT NOT NULL,
    player_id TEXT NOT NULL,
    target_id TEXT NOT NULL DEFAULT '',
    occurred_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_match_events_match_id ON match_events(match_id);
`

// Event kinds stored in match_events.
const (
	kindTag         = "tag"
	kindElimination = "elimination"
)

// PostgresStore implements MatchStore using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to PostgreSQL and initializes the schema.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// RecordMatchStart inserts a new match row when a game begins.
func (s *PostgresStore) RecordMatchStart(ctx context.Context, matchID, roomCode string, playerCount int) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO matches (id, room_code, player_count) VALUES ($1, $2, $3)`,
		matchID, roomCode, playerCount)
	return err
}

// RecordTag appends a committed tag to the match log.
func (s *PostgresStore) RecordTag(ctx context.Context, matchID, taggerID, targetID string, at time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO match_events (match_id, kind, player_id, target_id, occurred_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		matchID, kindTag, taggerID, targetID, at)
	return err
}

// RecordElimination appends a boundary elimination to the match log.
func (s *PostgresStore) RecordElimination(ctx context.Context, matchID, playerID string, at time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO match_events (match_id, kind, player_id, occurred_at)
		 VALUES ($1, $2, $3, $4)`,
		matchID, kindElimination, playerID, at)
	return err
}

// RecordMatchResult finalizes a match with its winner.
func (s *PostgresStore) RecordMatchResult(ctx context.Context, matchID, winner string, endedAt time.Time) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE matches SET winner = $1, ended_at = $2 WHERE id = $3`,
		winner, endedAt, matchID)
	return err
}

// RecentMatches returns the most recently started matches, newest first.
func (s *PostgresStore) RecentMatches(ctx context.Context, limit int) ([]MatchSummary, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, room_code, player_count, winner, started_at, ended_at
		 FROM matches ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []MatchSummary
	for rows.Next() {
		var m MatchSummary
		if err := rows.Scan(&m.ID, &m.RoomCode, &m.PlayerCount, &m.Winner, &m.StartedAt, &m.EndedAt); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// Close releases database resources.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
