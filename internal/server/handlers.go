package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/roach88/browsetrace/internal/event"
	"github.com/roach88/browsetrace/internal/store"
)

// defaultQueryLimit applies when the limit parameter is absent.
const defaultQueryLimit = 100

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	// Liveness only; the store is deliberately not probed.
	w.Write([]byte("ok"))
}

func (s *Server) handleEvents(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodPost:
		s.handlePostEvents(w, req)
	case http.MethodGet:
		s.handleGetEvents(w, req)
	case http.MethodDelete:
		s.handleDeleteEvents(w, req)
	default:
		http.Error(w, "GET, POST or DELETE only", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handlePostEvents(w http.ResponseWriter, req *http.Request) {
	var batch event.Batch
	if err := json.NewDecoder(req.Body).Decode(&batch); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	// Empty batches are no-ops, not errors.
	if len(batch.Events) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := s.store.InsertEvents(req.Context(), batch.Events); err != nil {
		s.log.Error("insert failed", "error", err, "batch_size", len(batch.Events))
		http.Error(w, "Failed to store events", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetEvents(w http.ResponseWriter, req *http.Request) {
	query := req.URL.Query()
	filter := store.Filter{
		Limit: defaultQueryLimit,
	}

	if typeParam := query.Get("type"); typeParam != "" {
		// Passed through as-is; the store checks it against the enum.
		filter.Type = &typeParam
	}

	if sinceParam := query.Get("since"); sinceParam != "" {
		since, err := strconv.ParseInt(sinceParam, 10, 64)
		if err != nil {
			http.Error(w, "Invalid 'since' parameter: must be Unix timestamp in milliseconds", http.StatusBadRequest)
			return
		}
		filter.SinceUTC = &since
	}

	if untilParam := query.Get("until"); untilParam != "" {
		until, err := strconv.ParseInt(untilParam, 10, 64)
		if err != nil {
			http.Error(w, "Invalid 'until' parameter: must be Unix timestamp in milliseconds", http.StatusBadRequest)
			return
		}
		filter.UntilUTC = &until
	}

	if limitParam := query.Get("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil || limit <= 0 {
			http.Error(w, "Invalid 'limit' parameter: must be positive integer", http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}

	events, err := s.store.GetEvents(req.Context(), filter)
	if err != nil {
		s.log.Error("query failed", "error", err)
		http.Error(w, "Failed to retrieve events", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(event.Batch{Events: events}); err != nil {
		s.log.Error("response encoding failed", "error", err)
	}
}

func (s *Server) handleDeleteEvents(w http.ResponseWriter, req *http.Request) {
	count, err := s.store.DeleteAllEvents(req.Context())
	if err != nil {
		s.log.Error("delete failed", "error", err)
		http.Error(w, "Failed to delete events", http.StatusInternalServerError)
		return
	}
	s.log.Info("all events deleted", "count", count)

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"deleted":%d}`+"\n", count)
}
