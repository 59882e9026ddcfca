// Package database handles connections to the registry database.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// MySQL or SQLite connections based on the application's configuration.
//
// # Connect
//
// The generic Connect function establishes a connection to the database. The
// driver field selects between MySQL (server deployments) and SQLite
// (single-binary or test deployments); the sqlite path treats the database
// name as a file path, with ":memory:" supported for tests.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Registry database unavailable", err)
//	}
package database
