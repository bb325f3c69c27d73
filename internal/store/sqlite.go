// internal/store/sqlite.go
//
// SQLite backend for the score ledger.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying the embedded migrations (idempotent, recorded in _migrations).
//   - Reading/writing the ledger row and its attempt distribution in one tx.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// SQLite is a Store backed by a SQLite database file.
type SQLite struct {
	db  *sql.DB
	log zerolog.Logger
}

// OpenSQLite opens (creating if needed) the database at dsn and applies
// the migrations found in migrations.
func OpenSQLite(dsn string, migrations fs.FS, logger zerolog.Logger) (*SQLite, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}
	s := &SQLite{db: db, log: logger.With().Str("component", "store.sqlite").Logger()}
	if err := s.migrate(migrations); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error { return s.db.Close() }

/**
 * openDB opens (and creates if missing) a SQLite database file.
 *
 * - Ensures parent directory exists for relative DSNs (e.g. ./data/scores.db).
 * - Configures busy timeout and WAL journaling mode.
 * - Enforces foreign keys.
 */
func openDB(dsn string) (*sql.DB, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

/**
 * migrate applies *.sql files from fsys in lexical order.
 *
 * - Uses a _migrations table to track applied files.
 * - Skips files already applied.
 * - Each file runs inside its own transaction.
 */
func (s *SQLite) migrate(fsys fs.FS) error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	var files []string
	if err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("walk migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := s.db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			s.log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlBytes, err := fs.ReadFile(fsys, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		s.log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

// Load reads the ledger row and its distribution.
func (s *SQLite) Load(ctx context.Context) (Record, error) {
	var r Record
	err := s.db.QueryRowContext(ctx,
		`SELECT total_score, games_played, games_won FROM ledger WHERE id = 1`,
	).Scan(&r.TotalScore, &r.GamesPlayed, &r.GamesWon)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("query ledger: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT attempt, wins FROM ledger_distribution ORDER BY attempt`)
	if err != nil {
		return Record{}, fmt.Errorf("query distribution: %w", err)
	}
	defer rows.Close()

	r.AttemptDistribution = make(map[int]int)
	for rows.Next() {
		var attempt, wins int
		if err := rows.Scan(&attempt, &wins); err != nil {
			return Record{}, err
		}
		r.AttemptDistribution[attempt] = wins
	}
	return r, rows.Err()
}

// Save replaces the ledger row and distribution in a single transaction.
func (s *SQLite) Save(ctx context.Context, r Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO ledger (id, total_score, games_played, games_won, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			total_score  = excluded.total_score,
			games_played = excluded.games_played,
			games_won    = excluded.games_won,
			updated_at   = excluded.updated_at`,
		r.TotalScore, r.GamesPlayed, r.GamesWon, now,
	); err != nil {
		return fmt.Errorf("upsert ledger: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_distribution`); err != nil {
		return fmt.Errorf("clear distribution: %w", err)
	}
	for attempt, wins := range r.AttemptDistribution {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO ledger_distribution (attempt, wins) VALUES (?, ?)`, attempt, wins,
		); err != nil {
			return fmt.Errorf("insert distribution %d: %w", attempt, err)
		}
	}
	return tx.Commit()
}
