package main

import (
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-ebookgen/internal/yamlutil"
)

// runConfigCmd prints the effective configuration as YAML: defaults, then
// the config file, then EBOOKGEN_* variables. The output is a valid config
// file.
func runConfigCmd(args []string, env *Environment) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	var common commonFlags
	fs.StringVarP(&common.config, "config", "c", "", "config file name or path")
	fs.Usage = func() { printConfigUsage(env.Stderr) }
	if err := fs.Parse(args); err != nil {
		return usageError(err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: config takes no arguments, got %q", ErrUsage, fs.Arg(0))
	}

	cfg, err := loadConfig(common, loadEnvConfig(env.Getenv))
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	out, err := yamlutil.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = env.Stdout.Write(out)
	return err
}
