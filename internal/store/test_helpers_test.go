package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/browsetrace/internal/event"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func strptr(s string) *string { return &s }

// navEvent builds a minimal valid navigate event at the given timestamp.
func navEvent(ts int64) event.Event {
	return event.Event{
		TSUTC: ts,
		TSISO: "2024-01-01T00:00:00Z",
		URL:   "https://example.com",
		Type:  event.TypeNavigate,
		Data:  map[string]any{"referrer": "https://start.example"},
	}
}

// inputEvent builds an input event with the dedup triple set.
func inputEvent(ts int64, url, fieldID, sessionID, value string) event.Event {
	return event.Event{
		TSUTC:     ts,
		TSISO:     "2024-01-01T00:00:00Z",
		URL:       url,
		Type:      event.TypeInput,
		Data:      map[string]any{"value": value},
		SessionID: strptr(sessionID),
		FieldID:   strptr(fieldID),
	}
}

// visibleTextEvent builds a visible_text snapshot for url+session.
func visibleTextEvent(ts int64, url, sessionID, text string) event.Event {
	return event.Event{
		TSUTC:     ts,
		TSISO:     "2024-01-01T00:00:00Z",
		URL:       url,
		Type:      event.TypeVisibleText,
		Data:      map[string]any{"text": text},
		SessionID: strptr(sessionID),
	}
}

func mustCount(t *testing.T, s *Store) int64 {
	t.Helper()

	count, err := s.CountEvents(context.Background())
	if err != nil {
		t.Fatalf("CountEvents() failed: %v", err)
	}
	return count
}
