// Command primenest-clear wipes the mirrored collections and every issued
// session from the configured durable area. The next start seeds again.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"primenest/internal/config"
	"primenest/internal/core"
	"primenest/internal/kv"
	"primenest/internal/logging"
	"primenest/internal/mirror"
)

func main() {
	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ctx := context.Background()
	area, err := kv.Open(ctx, cfg.Storage)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	err = clearArea(ctx, area, logger, os.Stdout)
	_ = kv.Close(area)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func clearArea(ctx context.Context, area kv.Store, logger *slog.Logger, out io.Writer) error {
	if err := mirror.New(area, logger).Clear(ctx); err != nil {
		return err
	}
	n, err := core.NewSessions(area, nil, logger).Clear(ctx)
	if err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}
	_, err = fmt.Fprintf(out, "cleared %d collections and %d sessions from %s storage\n", len(mirror.Keys()), n, area.Driver())
	return err
}
