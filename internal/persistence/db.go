// Package persistence provides SQLite-based storage for the sector and its
// diplomacy brains.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/sector-diplomacy/internal/diplomacy"
	"github.com/talgya/sector-diplomacy/internal/sector"
	"github.com/talgya/sector-diplomacy/internal/social"
)

// ErrNoState is returned by LoadState on a database that was never saved to.
var ErrNoState = errors.New("no saved state")

// Keys written to world_meta.
const (
	MetaSeed    = "seed"     // generation seed of the run, 0 when random
	MetaLastDay = "last_day" // sector day of the last SaveState
)

// DB wraps a SQLite connection for simulation state persistence.
type DB struct {
	conn *sqlx.DB
}

// Snapshot is everything needed to resume a run.
type Snapshot struct {
	Sector    sector.State
	Diplomacy diplomacy.ManagerState
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sector_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		day REAL NOT NULL,
		state_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS brains (
		faction TEXT PRIMARY KEY,
		state_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS negotiations (
		id TEXT PRIMARY KEY,
		proposer TEXT NOT NULL,
		player TEXT NOT NULL,
		peace_treaty INTEGER NOT NULL,
		state INTEGER NOT NULL,
		state_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		day REAL NOT NULL,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		faction_a TEXT NOT NULL,
		faction_b TEXT NOT NULL,
		delta REAL NOT NULL,
		description TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_day ON events(day);
	CREATE INDEX IF NOT EXISTS idx_events_faction_a ON events(faction_a);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveState writes a full snapshot in one transaction. Brains and
// negotiations are replaced; events are appended.
func (db *DB) SaveState(snap Snapshot) error {
	slog.Info("saving sector state",
		"day", snap.Sector.Day,
		"brains", len(snap.Diplomacy.Brains),
		"negotiations", len(snap.Diplomacy.Negotiations),
	)

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := saveSector(tx, snap.Sector); err != nil {
		return fmt.Errorf("save sector: %w", err)
	}
	if err := saveEvents(tx, snap.Sector.Events); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if err := saveBrains(tx, snap.Diplomacy.Brains); err != nil {
		return fmt.Errorf("save brains: %w", err)
	}
	if err := saveNegotiations(tx, snap.Diplomacy.Negotiations); err != nil {
		return fmt.Errorf("save negotiations: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		MetaLastDay, strconv.FormatFloat(snap.Sector.Day, 'f', -1, 64),
	); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("sector state saved")
	return nil
}

func saveSector(tx *sqlx.Tx, st sector.State) error {
	// The event log lives in its own table.
	st.Events = nil
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		"INSERT OR REPLACE INTO sector_state (id, day, state_json) VALUES (1, ?, ?)",
		st.Day, string(data),
	)
	return err
}

func saveEvents(tx *sqlx.Tx, events []sector.Event) error {
	if len(events) == 0 {
		return nil
	}
	stmt, err := tx.Preparex(`INSERT OR IGNORE INTO events
		(id, day, kind, name, faction_a, faction_b, delta, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.Exec(e.ID, e.Day, string(e.Kind), e.Name, string(e.A), string(e.B), e.Delta, e.Description); err != nil {
			return fmt.Errorf("insert event %s: %w", e.ID, err)
		}
	}
	return nil
}

func saveBrains(tx *sqlx.Tx, brains []diplomacy.BrainState) error {
	if _, err := tx.Exec("DELETE FROM brains"); err != nil {
		return err
	}
	for _, b := range brains {
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("encode brain %s: %w", b.Faction, err)
		}
		if _, err := tx.Exec("INSERT INTO brains (faction, state_json) VALUES (?, ?)", string(b.Faction), string(data)); err != nil {
			return fmt.Errorf("insert brain %s: %w", b.Faction, err)
		}
	}
	return nil
}

func saveNegotiations(tx *sqlx.Tx, negotiations []*diplomacy.CeasefireNegotiation) error {
	if _, err := tx.Exec("DELETE FROM negotiations"); err != nil {
		return err
	}
	for _, n := range negotiations {
		data, err := json.Marshal(n)
		if err != nil {
			return fmt.Errorf("encode negotiation %s: %w", n.ID, err)
		}
		treaty := 0
		if n.PeaceTreaty {
			treaty = 1
		}
		_, err = tx.Exec(`INSERT INTO negotiations
			(id, proposer, player, peace_treaty, state, state_json)
			VALUES (?, ?, ?, ?, ?, ?)`,
			n.ID, string(n.Proposer), string(n.Player), treaty, int(n.State), string(data),
		)
		if err != nil {
			return fmt.Errorf("insert negotiation %s: %w", n.ID, err)
		}
	}
	return nil
}

// LoadState reads the last saved snapshot. It returns ErrNoState if nothing
// has been saved yet.
func (db *DB) LoadState() (Snapshot, error) {
	var snap Snapshot

	var sectorJSON string
	err := db.conn.Get(&sectorJSON, "SELECT state_json FROM sector_state WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		return snap, ErrNoState
	}
	if err != nil {
		return snap, fmt.Errorf("load sector: %w", err)
	}
	if err := json.Unmarshal([]byte(sectorJSON), &snap.Sector); err != nil {
		return snap, fmt.Errorf("decode sector: %w", err)
	}

	events, err := db.RecentEvents(sector.MaxLoggedEvents)
	if err != nil {
		return snap, fmt.Errorf("load events: %w", err)
	}
	// RecentEvents is newest first; the sector log is oldest first.
	for i := len(events) - 1; i >= 0; i-- {
		snap.Sector.Events = append(snap.Sector.Events, events[i])
	}

	var brainRows []string
	if err := db.conn.Select(&brainRows, "SELECT state_json FROM brains ORDER BY faction"); err != nil {
		return snap, fmt.Errorf("load brains: %w", err)
	}
	for _, row := range brainRows {
		var bs diplomacy.BrainState
		if err := json.Unmarshal([]byte(row), &bs); err != nil {
			return snap, fmt.Errorf("decode brain: %w", err)
		}
		snap.Diplomacy.Brains = append(snap.Diplomacy.Brains, bs)
	}

	var negRows []string
	if err := db.conn.Select(&negRows, "SELECT state_json FROM negotiations ORDER BY id"); err != nil {
		return snap, fmt.Errorf("load negotiations: %w", err)
	}
	for _, row := range negRows {
		n := new(diplomacy.CeasefireNegotiation)
		if err := json.Unmarshal([]byte(row), n); err != nil {
			return snap, fmt.Errorf("decode negotiation: %w", err)
		}
		snap.Diplomacy.Negotiations = append(snap.Diplomacy.Negotiations, n)
	}

	slog.Info("sector state loaded",
		"day", snap.Sector.Day,
		"brains", len(snap.Diplomacy.Brains),
		"negotiations", len(snap.Diplomacy.Negotiations),
	)
	return snap, nil
}

// eventRow mirrors the events table.
type eventRow struct {
	ID          string  `db:"id"`
	Day         float64 `db:"day"`
	Kind        string  `db:"kind"`
	Name        string  `db:"name"`
	A           string  `db:"faction_a"`
	B           string  `db:"faction_b"`
	Delta       float64 `db:"delta"`
	Description string  `db:"description"`
}

func (r eventRow) event() sector.Event {
	return sector.Event{
		ID:          r.ID,
		Day:         r.Day,
		Kind:        social.EventKind(r.Kind),
		Name:        r.Name,
		A:           social.FactionID(r.A),
		B:           social.FactionID(r.B),
		Delta:       r.Delta,
		Description: r.Description,
	}
}

// RecentEvents returns the most recent limit events, newest first.
func (db *DB) RecentEvents(limit int) ([]sector.Event, error) {
	var rows []eventRow
	err := db.conn.Select(&rows,
		`SELECT id, day, kind, name, faction_a, faction_b, delta, description
		 FROM events ORDER BY seq DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	events := make([]sector.Event, len(rows))
	for i, r := range rows {
		events[i] = r.event()
	}
	return events, nil
}

// FactionEvents returns the most recent limit events involving a faction,
// newest first.
func (db *DB) FactionEvents(id social.FactionID, limit int) ([]sector.Event, error) {
	var rows []eventRow
	err := db.conn.Select(&rows,
		`SELECT id, day, kind, name, faction_a, faction_b, delta, description
		 FROM events WHERE faction_a = ? OR faction_b = ? ORDER BY seq DESC LIMIT ?`,
		string(id), string(id), limit,
	)
	if err != nil {
		return nil, err
	}
	events := make([]sector.Event, len(rows))
	for i, r := range rows {
		events[i] = r.event()
	}
	return events, nil
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value. ok is false if the key was never saved.
func (db *DB) GetMeta(key string) (value string, ok bool, err error) {
	err = db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}
