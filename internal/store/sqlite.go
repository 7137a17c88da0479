package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lox/hearts/internal/game"
)

// SQLite persists games, per-seat hands, tricks and final results to a
// sqlite database file.
type SQLite struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id TEXT PRIMARY KEY,
	state TEXT NOT NULL,
	round INTEGER NOT NULL,
	pass_direction TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS players (
	game_id TEXT NOT NULL,
	seat INTEGER NOT NULL,
	user_id TEXT,
	name TEXT NOT NULL,
	is_bot INTEGER NOT NULL,
	hand_json TEXT,
	round_score INTEGER NOT NULL,
	total_score INTEGER NOT NULL,
	PRIMARY KEY (game_id, seat)
);
CREATE TABLE IF NOT EXISTS tricks (
	game_id TEXT NOT NULL,
	round INTEGER NOT NULL,
	trick_number INTEGER NOT NULL,
	winner_seat INTEGER NOT NULL,
	points INTEGER NOT NULL,
	plays_json TEXT NOT NULL,
	played_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (game_id, round, trick_number)
);
CREATE TABLE IF NOT EXISTS results (
	game_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	name TEXT NOT NULL,
	seat INTEGER NOT NULL,
	total_score INTEGER NOT NULL,
	won INTEGER NOT NULL,
	finished_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (game_id, user_id)
);`

// NewSQLite opens (and if needed creates) the database at path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// SaveGame upserts the game row keyed by id.
func (s *SQLite) SaveGame(g *game.Game) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO games (id, state, round, pass_direction) VALUES (?, ?, ?, ?)`,
		g.ID, g.State.String(), g.Round, g.PassDirection.String())
	return err
}

// SavePlayers upserts one row per occupied seat, including a hand
// snapshot so an interrupted game can be inspected later.
func (s *SQLite) SavePlayers(g *game.Game) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT OR REPLACE INTO players (game_id, seat, user_id, name, is_bot, hand_json, round_score, total_score)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for seat, p := range g.Seats {
		if p == nil {
			continue
		}
		hand, err := json.Marshal(p.Hand)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(g.ID, seat, p.UserID, p.Name, p.IsBot, string(hand), p.RoundScore, p.TotalScore); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SaveTrick inserts a resolved trick keyed by (game, round, trick).
// Duplicate submissions for the same key are skipped.
func (s *SQLite) SaveTrick(gameID string, round, trickNumber, winner, points int, plays []game.TrickPlay) error {
	data, err := json.Marshal(plays)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT OR IGNORE INTO tricks (game_id, round, trick_number, winner_seat, points, plays_json)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		gameID, round, trickNumber, winner, points, string(data))
	return err
}

// SaveResults replaces the final results rows for a finished game.
func (s *SQLite) SaveResults(g *game.Game) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM results WHERE game_id = ?`, g.ID); err != nil {
		return err
	}

	for seat, p := range g.Seats {
		if p == nil {
			continue
		}
		userID := p.UserID
		if p.IsBot {
			userID = fmt.Sprintf("bot:%s:%d", g.ID, seat)
		}
		_, err := tx.Exec(
			`INSERT INTO results (game_id, user_id, name, seat, total_score, won) VALUES (?, ?, ?, ?, ?, ?)`,
			g.ID, userID, p.Name, seat, p.TotalScore, seat == g.Winner)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RecentResults returns up to limit result rows, most recent games first.
func (s *SQLite) RecentResults(limit int) ([]Result, error) {
	rows, err := s.db.Query(
		`SELECT game_id, user_id, name, seat, total_score, won FROM results
		 ORDER BY finished_at DESC, game_id, seat LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.GameID, &r.UserID, &r.Name, &r.Seat, &r.TotalScore, &r.Won); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
