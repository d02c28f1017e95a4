// Package sqliteexternal provides the optional CGO SQLite driver.
//
// To use the CGO driver (github.com/mattn/go-sqlite3):
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite ./cmd/projection
//
// core/sqlite imports this package under the cgo_sqlite tag. Without the
// tag the pure Go modernc.org/sqlite driver is used, which keeps the
// projection binary a single static file that cross-compiles cleanly.
package sqliteexternal
