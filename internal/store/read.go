package store

import (
	"context"
	"fmt"

	"github.com/roach88/browsetrace/internal/event"
)

// Filter narrows a GetEvents query. All fields are optional and combine
// conjunctively. A zero Limit means no LIMIT clause; the transport layer
// applies its own default before calling.
type Filter struct {
	Type     *string
	SinceUTC *int64 // inclusive lower bound on ts_utc
	UntilUTC *int64 // inclusive upper bound on ts_utc
	Limit    int
}

// GetEvents returns events matching the filter, ordered by ts_utc descending
// (most recent first, id descending as a tiebreak). The ordering is a hard
// contract; every consumer depends on it.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) GetEvents(ctx context.Context, filter Filter) ([]event.Event, error) {
	query := "SELECT ts_utc, ts_iso, url, title, type, data_json, session_id, field_id FROM events WHERE 1=1"
	args := []any{}

	if filter.Type != nil {
		if !event.ValidType(*filter.Type) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownType, *filter.Type)
		}
		query += " AND type = ?"
		args = append(args, *filter.Type)
	}
	if filter.SinceUTC != nil {
		query += " AND ts_utc >= ?"
		args = append(args, *filter.SinceUTC)
	}
	if filter.UntilUTC != nil {
		query += " AND ts_utc <= ?"
		args = append(args, *filter.UntilUTC)
	}

	query += " ORDER BY ts_utc DESC, id DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := []event.Event{}
	for rows.Next() {
		var (
			e        event.Event
			dataJSON string
		)
		if err := rows.Scan(&e.TSUTC, &e.TSISO, &e.URL, &e.Title, &e.Type, &dataJSON, &e.SessionID, &e.FieldID); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		// Should not occur given write-time canonicalization, but a corrupt
		// payload must surface as an error, not a panic.
		e.Data, err = event.UnmarshalData(dataJSON)
		if err != nil {
			return nil, fmt.Errorf("corrupt stored payload: %w", err)
		}

		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return events, nil
}

// CountEvents returns the total number of stored events.
func (s *Store) CountEvents(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

// CountByType returns per-type event counts. Types with no events are absent
// from the map.
func (s *Store) CountByType(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT type, COUNT(*) FROM events GROUP BY type")
	if err != nil {
		return nil, fmt.Errorf("failed to count events by type: %w", err)
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var (
			typ string
			n   int64
		)
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[typ] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating count rows: %w", err)
	}

	return counts, nil
}
