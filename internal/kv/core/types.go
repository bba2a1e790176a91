// Package core defines the durable key-value area contract implemented by the
// storage drivers under internal/infra/kv.
package core

import (
	"context"
	"errors"
)

// Driver identifies a concrete key-value backend implementation.
type Driver string

const (
	// DriverMemory keeps entries in process memory (tests, ephemeral runs).
	DriverMemory Driver = "memory"
	// DriverFilesystem stores one file per key under a root directory.
	DriverFilesystem Driver = "fs"
	// DriverSQLite stores entries in an embedded sqlite file.
	DriverSQLite Driver = "sqlite"
	// DriverPostgres stores entries in a PostgreSQL table.
	DriverPostgres Driver = "postgres"
	// DriverRedis stores entries as redis strings.
	DriverRedis Driver = "redis"
	// DriverS3 stores one object per key in an S3 / MinIO bucket.
	DriverS3 Driver = "s3"
)

// Store is a flat string-keyed area of opaque values. Put overwrites; last
// writer wins and no locking is offered across processes.
type Store interface {
	// Get returns the value stored at key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put creates or replaces the value at key.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key, reporting whether it existed.
	Delete(ctx context.Context, key string) (bool, error)
	// Driver returns the backend identifier.
	Driver() Driver
}

// Lister is implemented by drivers that can enumerate their keys. Keys
// returns the keys beginning with prefix in ascending order.
type Lister interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("kv: key not found")
