package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/browsetrace/internal/event"
)

// TestGetEvents_GoldenEnvelope pins the exact wire shape of the query
// response. To regenerate:
//
//	go test ./internal/server -run Golden -update
func TestGetEvents_GoldenEnvelope(t *testing.T) {
	s := newTestServer(t)

	title := "Home"
	w := postBatch(t, s, event.Batch{Events: []event.Event{
		{
			TSUTC:     1000,
			TSISO:     "2024-01-01T00:00:01Z",
			URL:       "https://example.com/home",
			Title:     &title,
			Type:      event.TypeNavigate,
			Data:      map[string]any{"referrer": "https://start.example"},
			SessionID: strptr("sess-1"),
		},
		{
			TSUTC:     2000,
			TSISO:     "2024-01-01T00:00:02Z",
			URL:       "https://example.com/home",
			Type:      event.TypeClick,
			Data:      map[string]any{"selector": "a.nav", "x": 12, "y": 34},
			SessionID: strptr("sess-1"),
		},
	}})
	require.Equal(t, http.StatusNoContent, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "events_response", rec.Body.Bytes())
}
