//go:build !cgo_sqlite

package catalog

import (
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

const (
	driverName = "sqlite"
	driverType = "purego"
)
