// Package kv exposes the durable key-value area used by the persistent mirror
// and the session store, and selects a driver from configuration.
package kv

import "primenest/internal/kv/core"

type (
	// Store aliases core.Store.
	Store = core.Store
	// Driver aliases core.Driver.
	Driver = core.Driver
	// Lister aliases core.Lister.
	Lister = core.Lister
)

const (
	DriverMemory     = core.DriverMemory
	DriverFilesystem = core.DriverFilesystem
	DriverSQLite     = core.DriverSQLite
	DriverPostgres   = core.DriverPostgres
	DriverRedis      = core.DriverRedis
	DriverS3         = core.DriverS3
)

// ErrNotFound aliases core.ErrNotFound.
var ErrNotFound = core.ErrNotFound
