// Package store keeps per-event selection ledgers in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/decibelcooper/zfinder"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps the SQLite database holding runs, events and cut levels.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database and applies migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate %s: %w", path, err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			inputs TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS levels (
			run_id TEXT NOT NULL,
			selection TEXT NOT NULL,
			level_idx INTEGER NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (run_id, selection, level_idx)
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY,
			run_id TEXT NOT NULL,
			run_number INTEGER NOT NULL,
			event_number INTEGER NOT NULL,
			real_data INTEGER NOT NULL,
			weight REAL NOT NULL,
			mass REAL NOT NULL,
			y REAL NOT NULL,
			pt REAL NOT NULL,
			phistar REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS cut_levels (
			event_id INTEGER NOT NULL,
			selection TEXT NOT NULL,
			level_idx INTEGER NOT NULL,
			pass INTEGER NOT NULL,
			t0p1_pass INTEGER NOT NULL,
			t1p0_pass INTEGER NOT NULL,
			t0p1_eff REAL NOT NULL,
			t1p0_eff REAL NOT NULL,
			event_weight REAL NOT NULL,
			PRIMARY KEY (event_id, selection, level_idx)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id);`,
		`CREATE INDEX IF NOT EXISTS idx_cut_levels_selection ON cut_levels(selection, level_idx);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// BeginRun registers a run with its selections' level names and returns the
// run id.
func (s *Store) BeginRun(ctx context.Context, defs []*zfinder.ZDefinition, inputs []string) (string, error) {
	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, inputs) VALUES (?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339Nano), strings.Join(inputs, "\n"),
	); err != nil {
		return "", err
	}
	for _, def := range defs {
		for i, name := range def.LevelNames() {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO levels (run_id, selection, level_idx, name) VALUES (?, ?, ?, ?)`,
				id, def.Name(), i, name,
			); err != nil {
				return "", err
			}
		}
	}
	if err = tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// WriteEvents stores events and all their ledgers in one transaction.
func (s *Store) WriteEvents(ctx context.Context, runID string, events []*zfinder.Event) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, ev := range events {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO events (run_id, run_number, event_number, real_data, weight, mass, y, pt, phistar)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, ev.RunNumber, int64(ev.EventNumber), boolInt(ev.IsRealData), ev.Weight,
			ev.Z.Mass, ev.Z.Y, ev.Z.Pt, ev.Z.Phistar,
		)
		if err != nil {
			return err
		}
		eventID, err := res.LastInsertId()
		if err != nil {
			return err
		}

		for _, name := range ev.LedgerNames() {
			ledger, _ := ev.Ledger(name)
			for i, lvl := range ledger {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO cut_levels (event_id, selection, level_idx, pass, t0p1_pass, t1p0_pass, t0p1_eff, t1p0_eff, event_weight)
					 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
					eventID, name, i, boolInt(lvl.Pass),
					boolInt(lvl.TagProbePass[zfinder.TagElectron0]), boolInt(lvl.TagProbePass[zfinder.TagElectron1]),
					lvl.TagProbeEfficiency[zfinder.TagElectron0], lvl.TagProbeEfficiency[zfinder.TagElectron1],
					lvl.EventWeight,
				); err != nil {
					return err
				}
			}
		}
	}
	return tx.Commit()
}

// LevelCount is the number of events passing one level of a selection.
type LevelCount struct {
	Index  int
	Name   string
	Passed int
	Total  int
}

// PassCounts returns per-level pass counts of a selection in a run.
func (s *Store) PassCounts(ctx context.Context, runID, selection string) ([]LevelCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT l.level_idx, l.name, COALESCE(SUM(c.pass), 0), COUNT(c.event_id)
		 FROM levels l
		 LEFT JOIN cut_levels c ON c.selection = l.selection AND c.level_idx = l.level_idx
		   AND c.event_id IN (SELECT id FROM events WHERE run_id = l.run_id)
		 WHERE l.run_id = ? AND l.selection = ?
		 GROUP BY l.level_idx, l.name
		 ORDER BY l.level_idx`,
		runID, selection,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LevelCount
	for rows.Next() {
		var c LevelCount
		if err := rows.Scan(&c.Index, &c.Name, &c.Passed, &c.Total); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
