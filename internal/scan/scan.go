// Package scan walks a directory tree for zellij session layout files
// and rewrites them with the layout transforms.
package scan

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"layouthook/internal/layout"
	"layouthook/internal/model"
	"layouthook/internal/ui"
)

// LayoutFileName is the only file name the scanner touches.
const LayoutFileName = "session-layout.kdl"

// TimestampFormat matches the run-log records of earlier versions.
const TimestampFormat = "2006-01-02 03:04:05 PM"

// Scanner rewrites session layout files under a root directory.
// Read or write failures on one file are reported and skipped; the
// scan always continues.
type Scanner struct {
	Verbose bool
	DryRun  bool
	Log     io.Writer // optional run-log sink, nil disables logging
}

// Run processes every session layout file under root and returns a
// summary of the files that changed.
func (s *Scanner) Run(root string) (model.Summary, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return model.Summary{}, fmt.Errorf("%s is not a directory", root)
	}

	summary := model.Summary{DryRun: s.DryRun}
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			ui.Error("Error reading %s: %v", path, err)
			return nil
		}
		if d.IsDir() || d.Name() != LayoutFileName {
			return nil
		}
		s.processFile(path, &summary)
		return nil
	})
	if walkErr != nil {
		return summary, walkErr
	}

	if !s.DryRun && len(summary.Updated) > 0 && s.Log != nil {
		fmt.Fprintf(s.Log, "\n[%s] Processed %d files\n",
			time.Now().Format(TimestampFormat), len(summary.Updated))
	}
	return summary, nil
}

func (s *Scanner) processFile(path string, summary *model.Summary) {
	if s.Verbose {
		if s.DryRun {
			ui.Info("Would process: %s", path)
		} else {
			ui.Info("Processing: %s", path)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		ui.Error("Error reading %s: %v", path, err)
		return
	}

	rewritten, changes := layout.Rewrite(string(data))
	if len(changes) == 0 {
		return
	}
	for i := range changes {
		changes[i].FilePath = path
	}
	summary.Changes = append(summary.Changes, changes...)
	summary.Updated = append(summary.Updated, path)

	if s.DryRun {
		return
	}
	if err := os.WriteFile(path, []byte(rewritten), 0644); err != nil {
		ui.Error("Error writing to %s: %v", path, err)
	}
}
