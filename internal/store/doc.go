// Package store provides SQLite-backed durable storage for browsing events.
//
// The store owns a single events table plus the indexes and unique
// constraints that make "last value wins" deduplication possible:
//
//   - UNIQUE(url, field_id, session_id): one row per form field per capture
//     session; a user slowly typing into the same field produces one row
//     holding the latest value. NULLs are distinct, so events without a
//     field_id or session_id never collide.
//   - UNIQUE(url, session_id) WHERE type = 'visible_text': one text snapshot
//     per page per capture session.
//
// Both constraints are resolved engine-side via ON CONFLICT upserts inside a
// single transaction per batch. There is no read-then-write across round
// trips, so concurrent writers cannot race the dedup keys; isolation rests on
// SQLite's transactional locking plus a bounded busy timeout.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Payloads are canonicalized by event.MarshalData immediately before each
// write; the json_valid CHECK in the schema is defense in depth behind it.
package store
