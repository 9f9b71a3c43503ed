package event

// Recognized event types. The set is fixed for the process lifetime and is
// shared by store-side validation and query-filter checking, so no
// synchronization is needed around it.
const (
	TypeNavigate    = "navigate"
	TypeVisibleText = "visible_text"
	TypeClick       = "click"
	TypeInput       = "input"
	TypeFocus       = "focus"
)

var validTypes = map[string]struct{}{
	TypeNavigate:    {},
	TypeVisibleText: {},
	TypeClick:       {},
	TypeInput:       {},
	TypeFocus:       {},
}

// ValidType reports whether t is one of the five recognized event types.
func ValidType(t string) bool {
	_, ok := validTypes[t]
	return ok
}

// Types returns the recognized event types in a stable order.
// Used by CLI help text and per-type statistics.
func Types() []string {
	return []string{TypeNavigate, TypeVisibleText, TypeClick, TypeInput, TypeFocus}
}

// Event is one captured browser interaction.
//
// The store assigns a surrogate row id at insert time; it is internal and
// never appears on the wire. TSISO is an informational ISO-8601 rendering of
// TSUTC; the store does not verify the two agree. Data is the type-specific
// payload and is opaque to the store beyond being well-formed JSON.
type Event struct {
	TSUTC     int64          `json:"ts_utc"`
	TSISO     string         `json:"ts_iso"`
	URL       string         `json:"url"`
	Title     *string        `json:"title"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data"`
	SessionID *string        `json:"session_id"`
	FieldID   *string        `json:"field_id"`
}

// Batch is the wire envelope for both ingestion and query responses.
type Batch struct {
	Events []Event `json:"events"`
}
