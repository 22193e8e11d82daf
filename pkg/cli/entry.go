// Package cli implements the mediabind command line: a scan command
// that runs a registration pass over the configured candidate sources
// and a templates command that lists the active contract template set.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/prashanthbabu07/mediabind/internal/config"
	"github.com/prashanthbabu07/mediabind/internal/pipeline"
	"github.com/prashanthbabu07/mediabind/internal/registry"
)

const usage = `usage: mediabind <command> [flags]

commands:
  scan       run a registration pass and print the emitted bindings
  templates  list the active contract template set

flags for scan:
  -config path   scan configuration (default mediabind.yaml if present)
  -o path        write the registry snapshot to a sqlite database

flags for templates:
  -config path   include templates declared in the configuration
`

// Run executes the command line and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	switch args[0] {
	case "scan":
		return runScan(args[1:], stdout, stderr)
	case "templates":
		return runTemplates(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}
}

func runScan(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "scan configuration file")
	out := fs.String("o", "", "sqlite registry snapshot path")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "mediabind: %v\n", err)
		return 1
	}

	registryPath := cfg.Registry
	if *out != "" {
		registryPath = *out
	}

	var binder registry.Binder
	if registryPath != "" {
		store, err := registry.OpenSQLite(registryPath)
		if err != nil {
			fmt.Fprintf(stderr, "mediabind: %v\n", err)
			return 1
		}
		defer store.Close()
		binder = store
	} else {
		binder = registry.NewInMemory()
	}

	wd, _ := os.Getwd()
	ctx := pipeline.New(
		pipeline.TemplateStage{},
		pipeline.LoadStage{Dir: wd},
		pipeline.ScanStage{},
	).Run(&pipeline.Context{Config: cfg, Binder: binder})

	for _, d := range ctx.Diagnostics {
		fmt.Fprintf(stderr, "%s: %s\n", d.Stage, d.Message)
	}
	if ctx.Fatal != nil {
		return 1
	}

	printBindings(stdout, ctx)
	return 0
}

func runTemplates(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("templates", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "scan configuration file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "mediabind: %v\n", err)
		return 1
	}

	templates, collectors := cfg.TemplateSet()
	for _, tmpl := range templates {
		fmt.Fprintf(stdout, "%s\n", tmpl)
	}
	for _, tmpl := range collectors {
		fmt.Fprintf(stdout, "%s (collector)\n", tmpl)
	}
	return 0
}

// loadConfig resolves the configuration: an explicit path must exist,
// the default file is optional.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat(config.ConfigFileName); err == nil {
		return config.Load(config.ConfigFileName)
	}
	return &config.Config{}, nil
}

func printBindings(stdout io.Writer, ctx *pipeline.Context) {
	if len(ctx.Bindings) == 0 {
		fmt.Fprintln(stdout, "no bindings registered")
		return
	}
	for _, b := range ctx.Bindings {
		fmt.Fprintf(stdout, "%s -> %s\n", colored(stdout, "32", b.ContractKey()), b.Implementation)
	}
	fmt.Fprintf(stdout, "%d bindings registered\n", len(ctx.Bindings))
}

// colored wraps s in an ANSI color when the writer is a terminal.
func colored(w io.Writer, code, s string) string {
	f, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}
