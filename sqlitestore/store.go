// Package sqlitestore persists markups and undo records in SQLite.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	takeoff "github.com/ivanvanderbyl/pdftakeoff"
)

// Store is a takeoff.MarkupStore backed by a SQLite file.
type Store struct {
	conn *sql.DB
}

var _ takeoff.MarkupStore = (*Store)(nil)

// Open opens (or creates) the database at dbPath and applies migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, errors.Wrap(err, "create db directory")
		}
	}

	conn, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// single writer; one connection avoids SQLITE_BUSY and keeps :memory: shared
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "migrate")
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS markups (
			id TEXT PRIMARY KEY,
			page INTEGER NOT NULL,
			position INTEGER NOT NULL,
			kind TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			data_json TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_markups_page ON markups(page, position)`,
		`CREATE TABLE IF NOT EXISTS page_scales (
			page INTEGER PRIMARY KEY,
			pixels_per_unit REAL NOT NULL,
			unit TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS undo_records (
			id TEXT PRIMARY KEY,
			page INTEGER NOT NULL,
			action TEXT NOT NULL,
			description TEXT NOT NULL,
			before_json TEXT NOT NULL,
			after_json TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_undo_records_page ON undo_records(page, created_at)`,
	}
	for _, m := range migrations {
		if _, err := s.conn.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Markups returns the markups of page in stored order.
func (s *Store) Markups(ctx context.Context, page int) ([]takeoff.Markup, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT data_json FROM markups WHERE page = ? ORDER BY position ASC`, page,
	)
	if err != nil {
		return nil, errors.Wrap(err, "load markups")
	}
	defer rows.Close()

	var out []takeoff.Markup
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Wrap(err, "scan markup")
		}
		var m takeoff.Markup
		if err := json.Unmarshal([]byte(data), &m); err != nil {
			return nil, errors.Wrap(err, "decode markup")
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SaveMarkups replaces every markup of page in one transaction.
func (s *Store) SaveMarkups(ctx context.Context, page int, markups []takeoff.Markup) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM markups WHERE page = ?`, page); err != nil {
		return errors.Wrap(err, "clear page")
	}
	for i, m := range markups {
		data, err := json.Marshal(m)
		if err != nil {
			return errors.Wrapf(err, "encode markup %s", m.ID)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO markups (id, page, position, kind, created_at, data_json)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			m.ID, page, i, string(m.Kind), m.CreatedAt.UnixNano(), string(data),
		)
		if err != nil {
			return errors.Wrapf(err, "insert markup %s", m.ID)
		}
	}
	return errors.Wrap(tx.Commit(), "commit")
}

// Pages returns the pages that have stored markups, ascending.
func (s *Store) Pages(ctx context.Context) ([]int, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT DISTINCT page FROM markups ORDER BY page ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "list pages")
	}
	defer rows.Close()

	var pages []int
	for rows.Next() {
		var p int
		if err := rows.Scan(&p); err != nil {
			return nil, errors.Wrap(err, "scan page")
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// SaveScale stores the calibrated scale of page.
func (s *Store) SaveScale(ctx context.Context, page int, scale takeoff.Scale) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO page_scales (page, pixels_per_unit, unit) VALUES (?, ?, ?)
		 ON CONFLICT(page) DO UPDATE SET pixels_per_unit = excluded.pixels_per_unit, unit = excluded.unit`,
		page, scale.PixelsPerUnit, scale.Unit,
	)
	return errors.Wrap(err, "save scale")
}

// Scale returns the stored scale of page, or the default scale when the
// page was never calibrated.
func (s *Store) Scale(ctx context.Context, page int) (takeoff.Scale, error) {
	var scale takeoff.Scale
	err := s.conn.QueryRowContext(ctx,
		`SELECT pixels_per_unit, unit FROM page_scales WHERE page = ?`, page,
	).Scan(&scale.PixelsPerUnit, &scale.Unit)
	if errors.Is(err, sql.ErrNoRows) {
		return takeoff.DefaultScale(), nil
	}
	if err != nil {
		return takeoff.Scale{}, errors.Wrap(err, "load scale")
	}
	return scale, nil
}
