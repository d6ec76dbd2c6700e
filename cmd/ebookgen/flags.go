package main

import (
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	logFormat string
}

// providerFlags holds model flags.
type providerFlags struct {
	model     string
	maxTokens int64
	noCache   bool
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size          string
	orientation   string
	margin        float64
	scale         float64
	background    string
	noPageNumbers bool
}

// renderFlags holds chapter rendering flags.
type renderFlags struct {
	style    string
	renderer string
}

// generateFlags holds all flags for the generate command.
type generateFlags struct {
	common   commonFlags
	output   string
	timeout  string
	htmlOnly bool
	provider providerFlags
	page     pageFlags
	render   renderFlags
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common    commonFlags
	addr      string
	rateLimit int
	htmlOnly  bool
	output    string
	timeout   string
	provider  providerFlags
	page      pageFlags
	render    renderFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: text, json")
}

// addProviderFlags adds model flags to a FlagSet.
func addProviderFlags(fs *flag.FlagSet, f *providerFlags) {
	fs.StringVar(&f.model, "model", "", "model name")
	fs.Int64Var(&f.maxTokens, "max-tokens", 0, "max tokens per reply")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the in-memory reply cache")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
	fs.Float64Var(&f.scale, "scale", 0, "print scale (0.1-2.0)")
	fs.StringVar(&f.background, "background", "", "page background color (hex)")
	fs.BoolVar(&f.noPageNumbers, "no-page-numbers", false, "omit page numbers")
}

// addRenderFlags adds rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.renderer, "renderer", "", "markdown renderer: subset, goldmark")
}

// registerGenerateFlags registers every generate flag on fs. Shared with
// completion so the flag list has one source.
func registerGenerateFlags(fs *flag.FlagSet, f *generateFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "export timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "write HTML only, skip PDF")

	addCommonFlags(fs, &f.common)
	addProviderFlags(fs, &f.provider)
	addPageFlags(fs, &f.page)
	addRenderFlags(fs, &f.render)
}

// registerServeFlags registers every serve flag on fs.
func registerServeFlags(fs *flag.FlagSet, f *serveFlags) {
	fs.StringVar(&f.addr, "addr", "", "listen address (host:port)")
	fs.IntVar(&f.rateLimit, "rate-limit", -1, "generate requests per minute per client (0 = unlimited)")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "export HTML instead of PDF")
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "export timeout (e.g., 30s, 2m)")

	addCommonFlags(fs, &f.common)
	addProviderFlags(fs, &f.provider)
	addPageFlags(fs, &f.page)
	addRenderFlags(fs, &f.render)
}

// parseGenerateFlags parses generate command flags and returns positional args.
func parseGenerateFlags(args []string) (*generateFlags, []string, error) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	f := &generateFlags{}
	registerGenerateFlags(fs, f)
	fs.Usage = func() { printGenerateUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string) (*serveFlags, []string, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	f := &serveFlags{}
	registerServeFlags(fs, f)
	fs.Usage = func() { printServeUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return f, fs.Args(), nil
}

// usageError tags flag parse failures with ErrUsage. ErrHelp passes through
// so -h exits cleanly.
func usageError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}
