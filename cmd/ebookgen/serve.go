package main

import (
	"context"
	"fmt"

	"github.com/alnah/go-ebookgen/internal/server"
)

// runServe hosts the browser UI until ctx is canceled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseServeFlags(args)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, positional[0])
	}

	envCfg := loadEnvConfig(env.Getenv)
	warnUnknownEnvVars(env.Stderr, env.Environ())

	cfg, err := loadConfig(flags.common, envCfg)
	if err != nil {
		return err
	}
	mergeServeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := buildLogger(cfg, env.Stderr)
	if err != nil {
		return err
	}

	a, err := buildApp(cfg, env, log, flags.htmlOnly)
	if err != nil {
		return err
	}
	defer a.close()

	srv := server.New(a.gen,
		server.WithLogger(log),
		server.WithRateLimit(cfg.Server.RateLimit),
		server.WithBaseContext(ctx),
	)
	if !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "ebookgen serving on http://%s\n", cfg.Server.Addr)
	}
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}
