// Package state persists the player session in SQLite.
package state

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName      = "undertow"
	dbFileName   = "undertow.db"
	saveDebounce = 500 * time.Millisecond
)

// Manager reads and writes the session. Writes through SaveSession are
// debounced; Close flushes the last one.
type Manager struct {
	conn *sql.DB

	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *Session
	closed    bool
}

// DefaultPath is the database location under the XDG data directory.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

// Open opens or creates the database at path. ":memory:" is accepted.
func Open(path string) (*Manager, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" a single database.
	conn.SetMaxOpenConns(1)

	if err := initSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return &Manager{conn: conn}, nil
}

// Session returns the saved session, or the defaults when none was saved.
func (m *Manager) Session() (*Session, error) {
	return getSession(m.conn)
}

// SaveSession schedules s to be written, replacing any pending write.
func (m *Manager) SaveSession(s Session) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	if m.closed {
		return
	}
	m.pending = &s
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveTimer = time.AfterFunc(saveDebounce, m.flush)
}

// SaveSessionNow writes s immediately and drops any pending write.
func (m *Manager) SaveSessionNow(s Session) error {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.pending = nil
	return saveSession(m.conn, s)
}

func (m *Manager) flush() {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	if m.closed || m.pending == nil {
		return
	}
	_ = saveSession(m.conn, *m.pending)
	m.pending = nil
}

// Close flushes a pending write and closes the database.
func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	pending := m.pending
	m.pending = nil
	m.closed = true
	m.saveMu.Unlock()

	if pending != nil {
		_ = saveSession(m.conn, *pending)
	}
	return m.conn.Close()
}
