// Package nvim shortens the editor invocations that zellij records in
// resurrect layouts: an absolute nvim path followed by generated --cmd
// options and, at the end, the files that were open.
package nvim

import (
	"slices"
	"strings"
)

// Simplify reduces a verbose nvim command to "nvim <files...>".
//
// The command is split on single spaces; tokens never contain embedded
// spaces in the layout generator's output. Commands whose first token
// does not end in nvim (or nvim.exe) pass through unchanged. The
// remaining tokens are scanned from the end backwards, collecting the
// trailing run of filenames; the scan stops at the first option flag or
// non-filename token without consuming it.
func Simplify(command string) string {
	parts := strings.Split(command, " ")
	first := parts[0]
	if !strings.HasSuffix(first, "nvim") && !strings.HasSuffix(first, "nvim.exe") {
		return command
	}

	var files []string
	rest := parts[1:]
	for i := len(rest) - 1; i >= 0; i-- {
		tok := rest[i]
		if strings.HasPrefix(tok, "-") || !CouldBeFilename(tok) {
			break
		}
		files = append(files, tok)
	}
	if len(files) == 0 {
		return "nvim"
	}
	slices.Reverse(files)
	return "nvim " + strings.Join(files, " ")
}

// CouldBeFilename reports whether a token can plausibly be a filename.
// It only rejects known-bad tokens (quoted lua snippets, assignments);
// it does not validate real filesystem names, so the empty string, "."
// and ".." all pass.
func CouldBeFilename(s string) bool {
	return !strings.ContainsAny(s, "\x00<>\":|?;=")
}
