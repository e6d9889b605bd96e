package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"layouthook/internal/app"
	"layouthook/internal/cli"
	"layouthook/internal/scan"
	"layouthook/internal/tui"
	"layouthook/internal/ui"
)

func main() {
	cfg, err := cli.ParseFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logSink, closeLog := openLog(cfg)
	defer closeLog()

	application := app.New(cfg, logSink)

	// Scan mode gets the spinner unless a flag asks for plain output;
	// hook and filter modes write to stdout and never run the TUI.
	if cfg.Mode == cli.ModeScan && !cfg.Verbose && !cfg.Quiet && !cfg.NoAnimation {
		if _, err := tea.NewProgram(tui.New(application, cfg)).Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
			os.Exit(1)
		}
		return
	}

	runPlain(application, cfg)
}

func runPlain(a *app.App, cfg *cli.Config) {
	if cfg.Mode == cli.ModeScan {
		if cfg.DryRun {
			ui.Header("===============DRY RUN===============")
		}
		if !cfg.Quiet {
			ui.Info("Scanning %s for %s files...", cfg.Path, scan.LayoutFileName)
		}
	}

	summary, err := a.Execute()
	if err != nil {
		var detailed *app.DetailedError
		if errors.As(err, &detailed) {
			fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
		}
		ui.Error("Error: %v", err)
		os.Exit(1)
	}

	switch cfg.Mode {
	case cli.ModeScan:
		if !cfg.Quiet {
			ui.PrintScanSummary(summary.Updated, summary.Changes, cfg.Verbose, cfg.DryRun)
		}
	case cli.ModeFilter:
		if cfg.Verbose {
			ui.Info("%d change(s) applied.", len(summary.Changes))
		}
	}
}

// openLog opens the append-only run log. The returned closer is a no-op
// when logging is disabled or the file cannot be opened.
func openLog(cfg *cli.Config) (io.Writer, func()) {
	if cfg.LogFile == "" || cfg.DryRun {
		return nil, func() {}
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		ui.Warning("Cannot open log file %s: %v", cfg.LogFile, err)
		return nil, func() {}
	}
	return f, func() { f.Close() }
}
