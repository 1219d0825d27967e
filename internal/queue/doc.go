// Package queue persists generation requests in SQLite and exposes the
// lifecycle operations the worker and API depend on.
//
// The claim is a single conditional UPDATE (pending -> processing), so two
// concurrent claimers can never both win; the loser sees nil. Complete and
// Fail carry the same guard against the processing status. Items are never
// deleted by the worker; Clear* and Remove exist for administrative cleanup.
//
// Treat this package as the single source of truth for queue semantics; when
// you add statuses or columns, update schema.sql and bump schemaVersion.
package queue
