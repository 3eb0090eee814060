// Package catalog keeps a SQLite history of compiled rule files.
//
// Every successful compilation can be stored as a Revision: the file's
// SHA-256 checksum, the lipid class and adduct read from its name, fragment
// and intensity-rule counts, and the canonical text produced by the writer.
// Storing identical content twice in a row is a no-op, so a watcher can call
// Put on every save.
//
//	cat, err := catalog.Open("data/fragrules.db")
//	rev, created, err := cat.Put(ctx, path, content, doc)
//	history, err := cat.History(ctx, path)
//
// Prune removes old revisions while keeping the newest few per rule file;
// Scheduler runs it on a cron schedule.
//
// The pure-Go modernc.org/sqlite driver is used by default. Building with
// -tags cgo_sqlite switches to github.com/mattn/go-sqlite3.
package catalog
