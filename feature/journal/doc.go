// Package journal persists storage client events to MySQL.
//
// The Observer implements storage.Observer: every initialize, connect
// attempt, read, write, allocate, cleanup and disconnect becomes one row in
// the transfer_journal table. Journal failures are logged and never reach the
// client, so a slow or broken database cannot change client behavior beyond
// latency.
//
// The journal is optional. When the database is not configured or not
// reachable, the start command runs without it.
//
// # HTTP Endpoints
//
//   - GET /journal?limit=N : most recent records first (default 50, max 500).
package journal
