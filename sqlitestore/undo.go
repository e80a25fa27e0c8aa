package sqlitestore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	takeoff "github.com/ivanvanderbyl/pdftakeoff"
)

// DefaultUndoLimit is the number of records kept per page.
const DefaultUndoLimit = 40

// UndoEntry is a stored undo record.
type UndoEntry struct {
	ID        string
	CreatedAt time.Time
	takeoff.UndoRecord
}

// UndoLog is a takeoff.UndoRecorder that appends records to the store and
// keeps only the newest Limit records per page.
type UndoLog struct {
	store *Store
	limit int
	now   func() time.Time
}

var _ takeoff.UndoRecorder = (*UndoLog)(nil)

// NewUndoLog returns an undo log on store keeping limit records per page.
// A non-positive limit uses DefaultUndoLimit.
func NewUndoLog(store *Store, limit int) *UndoLog {
	if limit <= 0 {
		limit = DefaultUndoLimit
	}
	return &UndoLog{store: store, limit: limit, now: time.Now}
}

// Record appends rec and prunes old records of the same page.
func (u *UndoLog) Record(ctx context.Context, rec takeoff.UndoRecord) error {
	before, err := json.Marshal(orEmpty(rec.Before))
	if err != nil {
		return errors.Wrap(err, "encode before")
	}
	after, err := json.Marshal(orEmpty(rec.After))
	if err != nil {
		return errors.Wrap(err, "encode after")
	}

	_, err = u.store.conn.ExecContext(ctx,
		`INSERT INTO undo_records (id, page, action, description, before_json, after_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), rec.Page, string(rec.Action), rec.Description,
		string(before), string(after), u.now().UnixNano(),
	)
	if err != nil {
		return errors.Wrap(err, "insert undo record")
	}
	return u.prune(ctx, rec.Page)
}

func orEmpty(markups []takeoff.Markup) []takeoff.Markup {
	if markups == nil {
		return []takeoff.Markup{}
	}
	return markups
}

// prune removes the oldest records of page beyond the limit.
func (u *UndoLog) prune(ctx context.Context, page int) error {
	_, err := u.store.conn.ExecContext(ctx,
		`DELETE FROM undo_records WHERE page = ? AND id NOT IN (
			SELECT id FROM undo_records WHERE page = ?
			ORDER BY created_at DESC, rowid DESC LIMIT ?
		)`,
		page, page, u.limit,
	)
	return errors.Wrap(err, "prune undo records")
}

// Entries returns the records of page, newest first.
func (u *UndoLog) Entries(ctx context.Context, page int) ([]UndoEntry, error) {
	rows, err := u.store.conn.QueryContext(ctx,
		`SELECT id, page, action, description, before_json, after_json, created_at
		 FROM undo_records WHERE page = ? ORDER BY created_at DESC, rowid DESC`, page,
	)
	if err != nil {
		return nil, errors.Wrap(err, "load undo records")
	}
	defer rows.Close()

	var out []UndoEntry
	for rows.Next() {
		var (
			e             UndoEntry
			action        string
			before, after string
			created       int64
		)
		if err := rows.Scan(&e.ID, &e.Page, &action, &e.Description, &before, &after, &created); err != nil {
			return nil, errors.Wrap(err, "scan undo record")
		}
		e.Action = takeoff.UndoAction(action)
		e.CreatedAt = time.Unix(0, created)
		if err := json.Unmarshal([]byte(before), &e.Before); err != nil {
			return nil, errors.Wrap(err, "decode before")
		}
		if err := json.Unmarshal([]byte(after), &e.After); err != nil {
			return nil, errors.Wrap(err, "decode after")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
