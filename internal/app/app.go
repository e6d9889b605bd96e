package app

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"layouthook/internal/cli"
	"layouthook/internal/layout"
	"layouthook/internal/model"
	"layouthook/internal/nvim"
	"layouthook/internal/scan"
	"layouthook/internal/source"
)

// App orchestrates one invocation of the tool.
type App struct {
	cfg            *cli.Config
	sourceProvider *source.Provider
	log            io.Writer // run-log sink, nil disables logging
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

// New creates a new App instance. The log sink is owned by the caller,
// which opens and closes it around Execute.
func New(cfg *cli.Config, log io.Writer) *App {
	return &App{
		cfg:            cfg,
		sourceProvider: source.New(),
		log:            log,
	}
}

// Execute runs the mode selected on the command line.
func (a *App) Execute() (summary model.Summary, err error) {
	// Centralized panic recovery to provide stack traces for unexpected errors.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	switch a.cfg.Mode {
	case cli.ModeScan:
		return a.scanLayouts()
	case cli.ModeFilter:
		return a.filterLayout()
	default:
		return a.runHook()
	}
}

// scanLayouts rewrites session layout files under the configured root.
func (a *App) scanLayouts() (model.Summary, error) {
	scanner := &scan.Scanner{
		Verbose: a.cfg.Verbose,
		DryRun:  a.cfg.DryRun,
		Log:     a.log,
	}
	return scanner.Run(a.cfg.Path)
}

// filterLayout rewrites one layout document from stdin or the clipboard
// and prints the result to stdout.
func (a *App) filterLayout() (model.Summary, error) {
	content, err := a.sourceProvider.Content()
	if err != nil {
		return model.Summary{}, err
	}
	if content == "" {
		return model.Summary{Message: "Source is empty. Nothing to process."}, nil
	}

	rewritten, changes := layout.Rewrite(content)
	fmt.Print(rewritten)
	return model.Summary{Changes: changes}, nil
}

// runHook simplifies the command zellij exposes through the
// RESURRECT_COMMAND environment variable, prints the result, and logs
// the pair.
func (a *App) runHook() (model.Summary, error) {
	command, ok := os.LookupEnv("RESURRECT_COMMAND")
	if !ok {
		return model.Summary{}, fmt.Errorf("RESURRECT_COMMAND not set")
	}

	formatted := nvim.Simplify(command)
	fmt.Println(formatted)

	if a.log != nil {
		fmt.Fprintf(a.log, "\n---\nTimestamp: %s\nOriginal command: %s\nFormatted command: %s\n\n",
			time.Now().Format(scan.TimestampFormat), command, formatted)
	}

	return model.Summary{Message: "Simplified command printed."}, nil
}
