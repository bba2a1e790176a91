package kv

import (
	"context"
	"fmt"
	"io"

	"primenest/internal/config"
	"primenest/internal/infra/kv/fs"
	"primenest/internal/infra/kv/memory"
	"primenest/internal/infra/kv/postgres"
	"primenest/internal/infra/kv/redis"
	"primenest/internal/infra/kv/s3"
	"primenest/internal/infra/kv/sqlite"
)

// Open selects a backend from the storage configuration.
//
//	PRIMENEST_STORAGE_DRIVER: memory|fs|sqlite|postgres|redis|s3 (default fs)
func Open(ctx context.Context, cfg config.Storage) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverMemory:
		return memory.New(), nil
	case DriverFilesystem:
		return fs.New(cfg.FSRoot)
	case DriverSQLite:
		return sqlite.New(cfg.SQLitePath)
	case DriverPostgres:
		return postgres.New(ctx, cfg.PostgresDSN)
	case DriverRedis:
		return redis.New(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	case DriverS3:
		return s3.New(ctx, s3.Config{
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			PathStyle: cfg.S3.PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

// Close releases the store's resources when the driver holds any.
func Close(s Store) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
