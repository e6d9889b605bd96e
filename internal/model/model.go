package model

// Change records one rewritten pane command.
type Change struct {
	FilePath   string
	Original   string
	Simplified string
}

// Summary holds the results of a run for display.
type Summary struct {
	Updated []string // files written, or that would be written in a dry run
	Changes []Change
	DryRun  bool
	Message string
}
