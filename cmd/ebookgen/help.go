package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ebookgen <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  generate    Generate an ebook for a topic and export it")
	fmt.Fprintln(w, "  serve       Run the web interface")
	fmt.Fprintln(w, "  doctor      Check API key, config and Chrome")
	fmt.Fprintln(w, "  config      Print the effective configuration")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'ebookgen help <command>' for details on a specific command.")
}

// printGenerateUsage prints usage for the generate command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ebookgen generate <topic...> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate an outline and chapters for a topic, then export the ebook.")
	fmt.Fprintln(w, "Progress goes to stderr; the written file path goes to stdout.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  topic    Free text; several words are joined with spaces")
	fmt.Fprintln(w)
	printSharedFlags(w)
	fmt.Fprintln(w, "      --html-only           Write HTML only, skip PDF")
	fmt.Fprintln(w)
	printEnvHelp(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ebookgen serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve a page that starts generations, streams progress over a")
	fmt.Fprintln(w, "websocket, previews the ebook and downloads the export.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "      --addr <host:port>    Listen address (default 127.0.0.1:8080)")
	fmt.Fprintln(w, "      --rate-limit <n>      Generate requests per minute per client (0 = unlimited)")
	fmt.Fprintln(w, "      --html-only           Export HTML instead of PDF")
	fmt.Fprintln(w)
	printSharedFlags(w)
	printEnvHelp(w)
}

func printSharedFlags(w io.Writer) {
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory")
	fmt.Fprintln(w, "  -t, --timeout <dur>       Export timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Model:")
	fmt.Fprintln(w, "      --model <name>        Model name")
	fmt.Fprintln(w, "      --max-tokens <n>      Max tokens per reply")
	fmt.Fprintln(w, "      --no-cache            Disable the in-memory reply cache")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
	fmt.Fprintln(w, "      --scale <f>           Print scale (0.1-2.0)")
	fmt.Fprintln(w, "      --background <hex>    Page background color")
	fmt.Fprintln(w, "      --no-page-numbers     Omit page numbers")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --style <name|path>   CSS style name or file path")
	fmt.Fprintln(w, "      --renderer <s>        Markdown renderer: subset, goldmark")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "General:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Debug logging")
	fmt.Fprintln(w, "      --log-format <s>      Log format: text, json")
}

func printEnvHelp(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  ANTHROPIC_API_KEY         Model API key (also read from .env)")
	fmt.Fprintln(w, "  EBOOKGEN_CONFIG           Config file name or path")
	fmt.Fprintln(w, "  EBOOKGEN_MODEL            Model name")
	fmt.Fprintln(w, "  EBOOKGEN_OUTPUT_DIR       Output directory")
	fmt.Fprintln(w, "  EBOOKGEN_TIMEOUT          Export timeout")
	fmt.Fprintln(w, "  EBOOKGEN_PAGE_SIZE        Page size")
	fmt.Fprintln(w, "  EBOOKGEN_STYLE            Style name or path")
	fmt.Fprintln(w, "  EBOOKGEN_LOG_LEVEL        debug, info, warn, error")
	fmt.Fprintln(w, "  EBOOKGEN_ADDR             serve listen address")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN           Chrome binary to use")
	fmt.Fprintln(w, "  ROD_NO_SANDBOX=1          Disable the Chrome sandbox (Docker/CI)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Priority: flags > environment > config file > defaults.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ebookgen doctor [--json] [-c <config>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the API key, the config file, Chrome and the temp directory.")
	fmt.Fprintln(w, "Exits 1 when a check fails; warnings do not fail.")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ebookgen config [-c <config>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the effective configuration as YAML, after the config file")
	fmt.Fprintln(w, "and EBOOKGEN_* variables are applied.")
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ebookgen completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells: bash, zsh, fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:  eval \"$(ebookgen completion bash)\"")
	fmt.Fprintln(w, "  Zsh:   eval \"$(ebookgen completion zsh)\"")
	fmt.Fprintln(w, "  Fish:  ebookgen completion fish > ~/.config/fish/completions/ebookgen.fish")
}

// printHelp prints help for a command, or the main usage.
func printHelp(w io.Writer, args []string) error {
	if len(args) == 0 {
		printUsage(w)
		return nil
	}
	switch args[0] {
	case "generate":
		printGenerateUsage(w)
	case "serve":
		printServeUsage(w)
	case "doctor":
		printDoctorUsage(w)
	case "config":
		printConfigUsage(w)
	case "completion":
		printCompletionUsage(w)
	case "version", "help":
		printUsage(w)
	default:
		return fmt.Errorf("%w: unknown command: %s", ErrUsage, args[0])
	}
	return nil
}
