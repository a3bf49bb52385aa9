package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/phxeconet/ceim/pkg/ceim"
)

// HistoryRecord is one persisted impact result.
type HistoryRecord struct {
	ID            int64
	NodeID        string
	ContaminantID string
	Kn            float64
	MassLoad      float64
	ComputedAt    time.Time
}

// History persists impact results to a SQLite database so pipeline runs
// survive restarts and can be queried over time.
type History struct {
	db *sql.DB
}

// OpenHistory opens (creating if necessary) the SQLite database at path
// and ensures the schema exists.
func OpenHistory(path string) (*History, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %q: %w", path, err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS impact_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		node_id TEXT NOT NULL,
		contaminant_id TEXT NOT NULL,
		kn REAL NOT NULL,
		mass_load REAL NOT NULL,
		computed_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_node ON impact_results(node_id);
	CREATE INDEX IF NOT EXISTS idx_computed_at ON impact_results(computed_at);`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}

	return &History{db: db}, nil
}

// Close closes the underlying database.
func (h *History) Close() error {
	if h.db != nil {
		return h.db.Close()
	}
	return nil
}

// Insert persists a batch of results under a single transaction, all
// stamped with computedAt.
func (h *History) Insert(results []ceim.Result, computedAt time.Time) error {
	tx, err := h.db.Begin()
	if err != nil {
		return fmt.Errorf("history: begin tx: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO impact_results(node_id, contaminant_id, kn, mass_load, computed_at)
		VALUES(?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("history: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		if _, err := stmt.Exec(r.NodeID, r.ContaminantID, r.Kn, r.MassLoad, computedAt.UTC()); err != nil {
			tx.Rollback()
			return fmt.Errorf("history: insert %s:%s: %w", r.NodeID, r.ContaminantID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("history: commit: %w", err)
	}
	return nil
}

// Query returns records for nodeID computed at or after since, newest first.
// An empty nodeID matches all nodes.
func (h *History) Query(nodeID string, since time.Time) ([]HistoryRecord, error) {
	query := `
		SELECT id, node_id, contaminant_id, kn, mass_load, computed_at
		FROM impact_results
		WHERE computed_at >= ?`
	args := []any{since.UTC()}
	if nodeID != "" {
		query += ` AND node_id = ?`
		args = append(args, nodeID)
	}
	query += ` ORDER BY computed_at DESC, node_id, contaminant_id`

	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	var out []HistoryRecord
	for rows.Next() {
		var rec HistoryRecord
		if err := rows.Scan(&rec.ID, &rec.NodeID, &rec.ContaminantID,
			&rec.Kn, &rec.MassLoad, &rec.ComputedAt); err != nil {
			return nil, fmt.Errorf("history: scan row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate rows: %w", err)
	}
	return out, nil
}

// Count returns the total number of persisted records.
func (h *History) Count() (int64, error) {
	var n int64
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM impact_results`).Scan(&n); err != nil {
		return 0, fmt.Errorf("history: count: %w", err)
	}
	return n, nil
}
