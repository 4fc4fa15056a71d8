// Package history persists a local record of merge runs.
//
// Every completed merge writes one row: which revisions went in, which policy
// decided conflicts, and the resulting change counts. The store is an
// embedded SQLite database opened through GORM, so the CLI needs no external
// services and the `history` subcommand can answer "what did last week's
// merges do" offline.
//
// Recording is strictly best effort: a failure to open or write the store is
// logged and the merge result stands. History must never be the reason a
// merge fails.
package history
