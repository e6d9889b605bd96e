package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// Mode selects what the invocation does.
type Mode int

const (
	// ModeHook simplifies the command in $RESURRECT_COMMAND and prints it.
	ModeHook Mode = iota
	// ModeScan rewrites session layout files under a directory.
	ModeScan
	// ModeFilter rewrites one layout read from stdin or the clipboard.
	ModeFilter
)

const (
	// DefaultScanPath is where zellij keeps its resurrect layouts.
	DefaultScanPath = "~/.cache/zellij"
	// DefaultLogFile receives one record per run that changed files.
	DefaultLogFile = "/tmp/nvim-resurrect.log"
)

// Config holds the parsed command and flag values.
type Config struct {
	Mode        Mode
	Path        string // scan root, ModeScan only
	Verbose     bool
	DryRun      bool
	Quiet       bool
	NoAnimation bool
	LogFile     string
}

// ParseFlags defines and parses command-line flags using pflag.
func ParseFlags() (*Config, error) {
	cfg := &Config{}

	pflag.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Show the original and simplified command for every change.")
	pflag.BoolVarP(&cfg.DryRun, "dry-run", "n", false, "Don't make changes, just show what would change.")
	pflag.BoolVarP(&cfg.Quiet, "quiet", "q", false, "Suppress the summary output.")
	pflag.BoolVar(&cfg.NoAnimation, "no-animation", false, "Disable the scanning spinner and render plain output.")
	pflag.StringVar(&cfg.LogFile, "log-file", DefaultLogFile, "Append a run record to this file (empty to disable).")

	pflag.Usage = func() {
		fmt.Println("Usage: layouthook [command] [flags]")
		fmt.Println("\nSimplify nvim commands in zellij session layouts.")
		fmt.Println("\nCommands:")
		fmt.Println("  scan [path]   Rewrite session-layout.kdl files under path (default: " + DefaultScanPath + ")")
		fmt.Println("  filter        Rewrite one layout from stdin or the clipboard and print it")
		fmt.Println("\nWithout a command, the value of $RESURRECT_COMMAND is simplified and printed.")
		fmt.Println("\nFlags:")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	args := pflag.Args()
	if len(args) == 0 {
		cfg.Mode = ModeHook
		return cfg, nil
	}

	switch args[0] {
	case "scan", "scan-layouts":
		cfg.Mode = ModeScan
		cfg.Path = DefaultScanPath
		if len(args) > 1 {
			cfg.Path = args[1]
		}
		if len(args) > 2 {
			return nil, fmt.Errorf("error: unexpected argument %q", args[2])
		}
		cfg.Path = ExpandHome(cfg.Path)
	case "filter":
		cfg.Mode = ModeFilter
		if len(args) > 1 {
			return nil, fmt.Errorf("error: unexpected argument %q", args[1])
		}
	default:
		return nil, fmt.Errorf("error: unknown command %q", args[0])
	}

	return cfg, nil
}

// ExpandHome replaces a leading ~/ with the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + path[1:]
		}
	}
	return path
}
