package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/alnah/go-ebookgen"
)

// runGenerate generates an ebook for the topic given as positional args,
// exports it and prints the written path on stdout.
func runGenerate(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseGenerateFlags(args)
	if err != nil {
		return err
	}

	topic := strings.TrimSpace(strings.Join(positional, " "))
	if topic == "" {
		return fmt.Errorf("%w (usage: ebookgen generate <topic...>)", ebookgen.ErrEmptyTopic)
	}

	envCfg := loadEnvConfig(env.Getenv)
	warnUnknownEnvVars(env.Stderr, env.Environ())

	cfg, err := loadConfig(flags.common, envCfg)
	if err != nil {
		return err
	}
	mergeGenerateFlags(flags, cfg)
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

	if !flags.common.quiet {
		stop := followProgress(env.Stderr, a.gen)
		defer stop()
	}

	book, err := a.gen.Generate(ctx, topic)
	if err != nil {
		return err
	}
	if n := book.FailedChapters(); n > 0 && !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "warning: %d of %d chapter(s) could not be generated and hold placeholder text\n",
			n, len(book.Chapters))
	}

	res, err := a.gen.Export(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(env.Stdout, res.Path)
	return nil
}

// progressSource is the part of the generator followProgress reads.
type progressSource interface {
	Subscribe() (<-chan ebookgen.Snapshot, func())
}

// followProgress prints one line per new progress message until stop is
// called. stop waits for the printer to drain.
func followProgress(w io.Writer, src progressSource) (stop func()) {
	snapshots, unsubscribe := src.Subscribe()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		last := ""
		for snap := range snapshots {
			line := formatProgress(snap)
			if line == "" || line == last {
				continue
			}
			fmt.Fprintln(w, line)
			last = line
		}
	}()

	return func() {
		unsubscribe()
		wg.Wait()
	}
}

// formatProgress renders a snapshot as "[current/total] message". Idle and
// error snapshots render empty; the command reports its own error.
func formatProgress(s ebookgen.Snapshot) string {
	if s.State == ebookgen.StateIdle || s.State == ebookgen.StateError {
		return ""
	}
	if s.Progress.Total == 0 {
		return s.Progress.Message
	}
	return fmt.Sprintf("[%d/%d] %s", s.Progress.Current, s.Progress.Total, s.Progress.Message)
}
