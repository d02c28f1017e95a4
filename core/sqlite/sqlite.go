// Package sqlite exports loaded Bible versions to SQLite databases.
//
// The driver is picked at build time. By default the pure Go
// modernc.org/sqlite driver is linked; building with
// CGO_ENABLED=1 -tags cgo_sqlite links mattn/go-sqlite3 through
// contrib/sqlite-external instead. Always open databases through Open so the
// registered driver name matches the build.
package sqlite

import "database/sql"

// DriverName is the database/sql name of the linked driver.
func DriverName() string { return driverName }

// DriverType is "purego" or "cgo".
func DriverType() string { return driverType }

// IsCGO reports whether the mattn driver is linked.
func IsCGO() bool { return driverType == "cgo" }

// Open opens a database with the linked driver.
func Open(dataSourceName string) (*sql.DB, error) {
	return sql.Open(driverName, dataSourceName)
}

// OpenReadOnly opens an existing database file without write access.
func OpenReadOnly(path string) (*sql.DB, error) {
	return Open("file:" + path + "?mode=ro")
}

// Info describes the linked driver for `projection version`.
type Info struct {
	DriverName string `json:"driver_name"`
	DriverType string `json:"driver_type"`
	IsCGO      bool   `json:"is_cgo"`
	Package    string `json:"package"`
}

// GetInfo reports the linked driver.
func GetInfo() Info {
	return Info{
		DriverName: driverName,
		DriverType: driverType,
		IsCGO:      IsCGO(),
		Package:    driverPackage,
	}
}
