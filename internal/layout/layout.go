// Package layout rewrites zellij session layout documents in place:
// verbose nvim pane commands are shortened, and panes inside tabs whose
// name starts with "dr " are wrapped in a direnv launcher. Everything
// the rewrite does not touch is preserved byte for byte.
package layout

import (
	"strings"

	"layouthook/internal/kdl"
	"layouthook/internal/model"
	"layouthook/internal/nvim"
)

// Rewrite transforms one layout document and returns the new text plus
// a change record per rewritten pane. Content that fails to parse is
// returned unchanged with no changes; a broken file is never worse off.
func Rewrite(content string) (string, []model.Change) {
	doc, err := kdl.Parse(content)
	if err != nil {
		return content, nil
	}
	var changes []model.Change
	walk(doc.Nodes, &changes)
	return doc.String(), changes
}

// walk dispatches over top-level structure. Tabs compute their direnv
// flag once and apply it to every pane below them; panes outside any
// tab only get the nvim simplification. Wrapper nodes (layout,
// new_tab_template, swap layouts) are traversed transparently.
func walk(nodes []*kdl.Node, changes *[]model.Change) {
	for _, n := range nodes {
		switch n.Name() {
		case "tab":
			processPanes(n, isDirenvTab(n), changes)
		case "pane":
			processPane(n, false, changes)
			if kids := n.Children(); kids != nil {
				walk(kids.Nodes, changes)
			}
		default:
			if kids := n.Children(); kids != nil {
				walk(kids.Nodes, changes)
			}
		}
	}
}

// isDirenvTab reports whether the tab's name carries the "dr " marker.
func isDirenvTab(tab *kdl.Node) bool {
	name, ok := tab.StringEntry("name")
	return ok && strings.HasPrefix(name, "dr ")
}

// processPanes visits every pane in the subtree, including panes nested
// inside split containers, carrying the tab's direnv flag down.
func processPanes(n *kdl.Node, direnvTab bool, changes *[]model.Change) {
	kids := n.Children()
	if kids == nil {
		return
	}
	for _, c := range kids.Nodes {
		if c.Name() == "pane" {
			processPane(c, direnvTab, changes)
		}
		processPanes(c, direnvTab, changes)
	}
}

func processPane(pane *kdl.Node, direnvTab bool, changes *[]model.Change) {
	command, ok := pane.StringEntry("command")
	if !ok {
		return
	}
	args := positionalArgs(pane)
	if direnvTab {
		wrapDirenv(pane, command, args, changes)
		return
	}
	if strings.Contains(command, "nvim") {
		simplifyNvim(pane, command, args, changes)
	}
}

// wrapDirenv rewrites a pane to launch its command through
// "direnv exec .", simplifying nvim invocations along the way.
func wrapDirenv(pane *kdl.Node, command string, args []string, changes *[]model.Change) {
	if command == "direnv" {
		// Already wrapped by a previous run.
		return
	}

	full := joinCommand(command, args)
	cmdName := command
	var fileArgs []string
	if strings.Contains(command, "nvim") {
		simplified := nvim.Simplify(full)
		if simplified == "nvim" {
			cmdName = "nvim"
		} else if rest, found := strings.CutPrefix(simplified, "nvim "); found {
			cmdName = "nvim"
			fileArgs = strings.Fields(rest)
		}
	}

	newArgs := []string{"exec", ".", cmdName}
	if len(fileArgs) > 0 {
		newArgs = append(newArgs, fileArgs...)
	} else if len(args) > 0 {
		newArgs = append(newArgs, args...)
	}

	pane.SetStringEntry("command", "direnv")
	setArgs(pane, newArgs)

	*changes = append(*changes, model.Change{
		Original:   full,
		Simplified: "direnv " + strings.Join(newArgs, " "),
	})
}

// simplifyNvim canonicalizes an nvim pane outside direnv tabs.
func simplifyNvim(pane *kdl.Node, command string, args []string, changes *[]model.Change) {
	full := joinCommand(command, args)
	simplified := nvim.Simplify(full)
	if simplified == full {
		return
	}

	var files []string
	if rest, found := strings.CutPrefix(simplified, "nvim "); found {
		files = strings.Fields(rest)
	}

	pane.SetStringEntry("command", "nvim")
	if len(files) > 0 {
		setArgs(pane, files)
	} else {
		removeArgs(pane)
	}

	*changes = append(*changes, model.Change{
		Original:   full,
		Simplified: simplified,
	})
}

func joinCommand(command string, args []string) string {
	if len(args) == 0 {
		return command
	}
	return command + " " + strings.Join(args, " ")
}

// positionalArgs reads the positional string values of the pane's first
// args child. Named entries inside args are ignored, and dropped when
// the node is rewritten; zellij never emits them there.
func positionalArgs(pane *kdl.Node) []string {
	if args := findArgs(pane); args != nil {
		return args.PositionalStrings()
	}
	return nil
}

func findArgs(pane *kdl.Node) *kdl.Node {
	kids := pane.Children()
	if kids == nil {
		return nil
	}
	for _, c := range kids.Nodes {
		if c.Name() == "args" {
			return c
		}
	}
	return nil
}

// setArgs replaces or inserts the pane's args child while keeping the
// pane's visual layout: an existing node is overwritten in place with
// its formatting reused; otherwise the new node is inserted first,
// borrowing the indentation of the previous first child. Any blank
// line that preceded that child stays in front of the new args node
// rather than being duplicated.
func setArgs(pane *kdl.Node, values []string) {
	node := kdl.NewNode("args")
	for _, v := range values {
		node.AddString(v)
	}

	kids := pane.EnsureChildren()
	for i, c := range kids.Nodes {
		if c.Name() == "args" {
			node.SetLeading(c.Leading())
			node.SetTrailing(c.Trailing())
			kids.Nodes[i] = node
			return
		}
	}

	if len(kids.Nodes) > 0 {
		first := kids.Nodes[0]
		node.SetLeading(first.Leading())
		node.SetTrailing("\n")
		first.SetLeading(strings.TrimLeft(first.Leading(), "\n"))
		kids.Nodes = append([]*kdl.Node{node}, kids.Nodes...)
		return
	}

	// No children to borrow formatting from; render inline.
	node.SetLeading(" ")
	if kids.Trailing() == "" {
		kids.SetTrailing(" ")
	}
	kids.Nodes = []*kdl.Node{node}
}

// removeArgs drops the args child without touching any sibling's
// formatting.
func removeArgs(pane *kdl.Node) {
	kids := pane.Children()
	if kids == nil {
		return
	}
	out := kids.Nodes[:0]
	for _, c := range kids.Nodes {
		if c.Name() != "args" {
			out = append(out, c)
		}
	}
	kids.Nodes = out
}
