package state

import (
	"database/sql"
	"errors"
	"time"

	"github.com/llehouerou/undertow/internal/db"
)

// Session is what the player restores on the next start.
type Session struct {
	Volume   float64
	Path     string // last played track, "" for none
	Position time.Duration
}

func getSession(conn *sql.DB) (*Session, error) {
	var (
		s    Session
		path sql.NullString
		ms   int64
	)
	err := conn.QueryRow(`SELECT volume, path, position_ms FROM session WHERE id = 1`).
		Scan(&s.Volume, &path, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return &Session{Volume: 1}, nil
	}
	if err != nil {
		return nil, err
	}
	s.Path = db.NullStringValue(path)
	s.Position = time.Duration(ms) * time.Millisecond
	return &s, nil
}

func saveSession(conn *sql.DB, s Session) error {
	var path sql.NullString
	if s.Path != "" {
		path = sql.NullString{String: s.Path, Valid: true}
	}
	_, err := conn.Exec(`
		INSERT INTO session (id, volume, path, position_ms, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			volume = excluded.volume,
			path = excluded.path,
			position_ms = excluded.position_ms,
			updated_at = excluded.updated_at
	`, s.Volume, path, s.Position.Milliseconds(), time.Now().Unix())
	return err
}
