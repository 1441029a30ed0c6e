// Package archive provides an optional, best-effort audit trail of
// terminal events in a queue engine: items marked Done and queues
// deleted.
//
// # Overview
//
// The archive is a write-behind sink, not a source of truth. It is
// never consulted to recover in-memory state after a restart, and a
// queue or item's presence or absence in memory never depends on
// whether its event made it into the archive. Its only purpose is
// administrative inspection: answering "what happened to this queue"
// after the fact.
//
// Events are published by the queue engine outside of any Queue or
// Registry lock, buffered in memory, and written to storage by a
// single background goroutine using github.com/uptrace/bun. If the
// buffer fills, the oldest buffered event is dropped to make room for
// the newest, on the theory that recent activity is more useful to an
// operator than activity from several seconds ago.
//
// # Schema
//
// Sink stores one row per event in an "archive_events" table via bun,
// compatible with SQLite (the default) and other bun dialects.
package archive
