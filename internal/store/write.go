package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/browsetrace/internal/event"
)

const insertSQL = `
	INSERT INTO events (ts_utc, ts_iso, url, title, type, data_json, session_id, field_id)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

const upsertInputSQL = `
	INSERT INTO events (ts_utc, ts_iso, url, title, type, data_json, session_id, field_id)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(url, field_id, session_id) DO UPDATE SET
		ts_utc    = excluded.ts_utc,
		ts_iso    = excluded.ts_iso,
		title     = excluded.title,
		data_json = excluded.data_json
`

const upsertVisibleTextSQL = `
	INSERT INTO events (ts_utc, ts_iso, url, title, type, data_json, session_id, field_id)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(url, session_id) WHERE type = 'visible_text' DO UPDATE SET
		ts_utc    = excluded.ts_utc,
		ts_iso    = excluded.ts_iso,
		title     = excluded.title,
		data_json = excluded.data_json
`

// writeMode selects which prepared statement persists an event.
type writeMode int

const (
	modeInsert writeMode = iota
	modeUpsertInput
	modeUpsertVisibleText
)

// classify picks the write strategy for one event:
//
//   - input events carrying both field_id and session_id upsert on
//     (url, field_id, session_id)
//   - visible_text events carrying session_id upsert on (url, session_id)
//   - everything else is a plain insert; identical repeats get new rows
//
// The decision and the write are never split across round trips - conflicts
// are resolved by the ON CONFLICT clause inside the batch transaction.
func classify(e event.Event) writeMode {
	switch {
	case e.Type == event.TypeInput && e.FieldID != nil && e.SessionID != nil:
		return modeUpsertInput
	case e.Type == event.TypeVisibleText && e.SessionID != nil:
		return modeUpsertVisibleText
	default:
		return modeInsert
	}
}

// InsertEvents persists a batch of events in one transaction, all-or-nothing.
// Each event is validated first; any validation or marshal failure rolls back
// the entire batch, including events already processed in this call.
//
// The id column is never touched on upsert conflicts - the original surrogate
// key survives a "last value wins" overwrite.
func (s *Store) InsertEvents(ctx context.Context, events []event.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmts := map[writeMode]*sql.Stmt{}
	for mode, query := range map[writeMode]string{
		modeInsert:            insertSQL,
		modeUpsertInput:       upsertInputSQL,
		modeUpsertVisibleText: upsertVisibleTextSQL,
	} {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()
		stmts[mode] = stmt
	}

	for _, e := range events {
		if err := ValidateEvent(e); err != nil {
			return fmt.Errorf("invalid event: %w", err)
		}

		// Canonicalize at write time, after validation
		dataJSON, err := event.MarshalData(e.Data)
		if err != nil {
			return fmt.Errorf("failed to serialize event data: %w", err)
		}

		stmt := stmts[classify(e)]
		if _, err := stmt.ExecContext(ctx, e.TSUTC, e.TSISO, e.URL, e.Title, e.Type, dataJSON, e.SessionID, e.FieldID); err != nil {
			return fmt.Errorf("failed to write event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteAllEvents removes every event and reports how many rows were
// deleted. Administrative use only.
func (s *Store) DeleteAllEvents(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM events")
	if err != nil {
		return 0, fmt.Errorf("failed to delete events: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted rows: %w", err)
	}
	return count, nil
}
