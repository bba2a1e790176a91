// Command primenest-query resolves one resource query against the configured
// store and prints the result as JSON.
//
//	primenest-query [-on401 throw|return-null] <path> [key=value ...]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"primenest/internal/config"
	"primenest/internal/core"
	"primenest/internal/kv"
	"primenest/internal/logging"
	"primenest/internal/query"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], config.Load(), os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, cfg *config.Config, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("primenest-query", flag.ContinueOnError)
	fs.SetOutput(stderr)
	on401 := fs.String("on401", cfg.Passthrough.On401, "401 handling for passthrough paths: throw or return-null")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: primenest-query [-on401 throw|return-null] <path> [key=value ...]")
		return 2
	}
	q, err := buildQuery(fs.Arg(0), fs.Args()[1:])
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if err := resolve(ctx, cfg, q, *on401, stdout, stderr); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

// buildQuery turns key=value pairs into a filter parameter. Only the list
// paths accept parameters.
func buildQuery(path string, pairs []string) (query.Query, error) {
	if len(pairs) == 0 {
		return query.New(path), nil
	}
	if path != query.PathProperties && path != query.PathAgents {
		return query.Query{}, fmt.Errorf("parameters are only accepted for %s and %s", query.PathProperties, query.PathAgents)
	}
	params := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return query.Query{}, fmt.Errorf("invalid parameter %q, want key=value", p)
		}
		params[k] = v
	}
	return query.New(path, params), nil
}

func resolve(ctx context.Context, cfg *config.Config, q query.Query, on401 string, stdout, stderr io.Writer) error {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, stderr)
	if err != nil {
		return err
	}
	behavior, err := query.ParseUnauthorizedBehavior(on401)
	if err != nil {
		return err
	}
	store, area, err := core.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = kv.Close(area) }()

	svc := core.NewService(store, core.NewSessions(area, nil, logger),
		core.WithLatency(cfg.Latency, cfg.LogoutLatency),
		core.WithLogger(logger),
	)
	d, err := query.FromConfig(svc, cfg.Passthrough, logger)
	if err != nil {
		return err
	}
	out, err := d.ResolveWith(ctx, q, behavior)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
