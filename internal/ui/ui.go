package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"layouthook/internal/model"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
)

func Header(format string, a ...interface{}) {
	HeaderColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	InfoColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	SuccessColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Path(format string, a ...interface{}) {
	PathColor.Fprintf(os.Stderr, "  "+format+"\n", a...)
}

// --- Summaries ---

// PrintScanSummary reports the outcome of a layout scan. The short form
// lists the touched files; verbose shows the original and simplified
// command per change.
func PrintScanSummary(updated []string, changes []model.Change, verbose, dryRun bool) {
	if len(updated) == 0 {
		Info("\nNo changes needed.")
		return
	}

	Success("\nFound %d file(s) to update.", len(updated))

	if !verbose {
		if dryRun {
			Info("Files that would be updated:")
		} else {
			Info("Files updated:")
		}
		for _, f := range updated {
			Path("%s", f)
		}
		return
	}

	Header("\nDetailed changes:")
	for i, c := range changes {
		Info("\n%d. %s", i+1, c.FilePath)
		fmt.Printf("   Original: %s\n", c.Original)
		fmt.Printf("   Simplified: %s\n", c.Simplified)
	}
}
