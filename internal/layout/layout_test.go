package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"layouthook/internal/model"
)

// A stand-in for the generated --cmd payloads zellij records; the
// embedded '=' and ';' characters keep it from classifying as a
// filename.
const luaSnippet = `"vim.opt.packpath:prepend('/nix/store/abc-mnw-configDir');vim.g.loaded_node_provider=0"`

func TestRewriteSimplifiesNvimPane(t *testing.T) {
	input := "pane command=\"/home/zach/.nix-profile/bin/nvim\" focus=true size=\"50%\" {\n" +
		"    args \"--cmd\" " + luaSnippet + " \"file1.rs\" \"file2.rs\"\n" +
		"    start_suspended true\n" +
		"}\n"
	want := "pane command=\"nvim\" focus=true size=\"50%\" {\n" +
		"    args \"file1.rs\" \"file2.rs\"\n" +
		"    start_suspended true\n" +
		"}\n"

	got, changes := Rewrite(input)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rewritten document mismatch (-want +got):\n%s", diff)
	}
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	if changes[0].Simplified != "nvim file1.rs file2.rs" {
		t.Errorf("change simplified = %q", changes[0].Simplified)
	}
}

func TestRewriteRemovesEmptyArgs(t *testing.T) {
	input := "pane command=\"/usr/bin/nvim\" {\n" +
		"    args\n" +
		"    start_suspended true\n" +
		"}\n"
	want := "pane command=\"nvim\" {\n" +
		"    start_suspended true\n" +
		"}\n"

	got, changes := Rewrite(input)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rewritten document mismatch (-want +got):\n%s", diff)
	}
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
}

func TestRewriteInsertsArgsBeforeFirstChild(t *testing.T) {
	input := "tab name=\"dr proj\" {\n" +
		"    pane command=\"claude\" cwd=\"proj\" {\n" +
		"        start_suspended true\n" +
		"    }\n" +
		"}\n"
	want := "tab name=\"dr proj\" {\n" +
		"    pane command=\"direnv\" cwd=\"proj\" {\n" +
		"        args \"exec\" \".\" \"claude\"\n" +
		"        start_suspended true\n" +
		"    }\n" +
		"}\n"

	got, _ := Rewrite(input)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rewritten document mismatch (-want +got):\n%s", diff)
	}
}

func TestRewriteDirenvWrapsPlainCommand(t *testing.T) {
	input := "tab name=\"dr proj\" {\n" +
		"    pane command=\"bacon\" {}\n" +
		"}\n"
	want := "tab name=\"dr proj\" {\n" +
		"    pane command=\"direnv\" { args \"exec\" \".\" \"bacon\" }\n" +
		"}\n"

	got, changes := Rewrite(input)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rewritten document mismatch (-want +got):\n%s", diff)
	}
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	wantChange := model.Change{Original: "bacon", Simplified: "direnv exec . bacon"}
	if diff := cmp.Diff(wantChange, changes[0]); diff != "" {
		t.Errorf("change record mismatch (-want +got):\n%s", diff)
	}
}

func TestRewriteDirenvAlreadyWrapped(t *testing.T) {
	input := "tab name=\"dr mediactl\" focus=true hide_floating_panes=true {\n" +
		"    pane command=\"direnv\" cwd=\"/home/zach/Dev/mediactl\" size=\"38%\" {\n" +
		"        args \"exec\" \".\" \"nvim\" \"notes.md\" \"src/main.rs\"\n" +
		"        start_suspended true\n" +
		"    }\n" +
		"}\n"

	got, changes := Rewrite(input)
	if got != input {
		t.Errorf("document changed (-want +got):\n%s", cmp.Diff(input, got))
	}
	if len(changes) != 0 {
		t.Errorf("expected no changes, got %d", len(changes))
	}
}

func TestRewriteDirenvSimplifiesNvim(t *testing.T) {
	input := "tab name=\"dr mediactl\" focus=true hide_floating_panes=true {\n" +
		"    pane command=\"/home/zach/.nix-profile/bin/nvim\" cwd=\"mediactl\" size=\"38%\" {\n" +
		"        args \"--cmd\" " + luaSnippet + " \"notes.md\" \"src/main.rs\" \"src/lib.rs\"\n" +
		"        start_suspended true\n" +
		"    }\n" +
		"}\n"
	want := "tab name=\"dr mediactl\" focus=true hide_floating_panes=true {\n" +
		"    pane command=\"direnv\" cwd=\"mediactl\" size=\"38%\" {\n" +
		"        args \"exec\" \".\" \"nvim\" \"notes.md\" \"src/main.rs\" \"src/lib.rs\"\n" +
		"        start_suspended true\n" +
		"    }\n" +
		"}\n"

	got, _ := Rewrite(input)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rewritten document mismatch (-want +got):\n%s", diff)
	}
}

func TestRewriteDirenvMultiPane(t *testing.T) {
	input := "tab name=\"dr mediactl\" focus=true hide_floating_panes=true {\n" +
		"    pane size=1 borderless=true {\n" +
		"        plugin location=\"zellij:tab-bar\"\n" +
		"    }\n" +
		"    pane split_direction=\"vertical\" {\n" +
		"        pane command=\"bacon\" cwd=\"mediactl\" size=\"33%\" {\n" +
		"            start_suspended true\n" +
		"        }\n" +
		"        pane size=\"28%\" {\n" +
		"            pane command=\"target/debug/mediactl\" cwd=\"mediactl\" focus=true size=\"60%\" {\n" +
		"                args \"tui\"\n" +
		"                start_suspended true\n" +
		"            }\n" +
		"        }\n" +
		"    }\n" +
		"}\n"
	want := "tab name=\"dr mediactl\" focus=true hide_floating_panes=true {\n" +
		"    pane size=1 borderless=true {\n" +
		"        plugin location=\"zellij:tab-bar\"\n" +
		"    }\n" +
		"    pane split_direction=\"vertical\" {\n" +
		"        pane command=\"direnv\" cwd=\"mediactl\" size=\"33%\" {\n" +
		"            args \"exec\" \".\" \"bacon\"\n" +
		"            start_suspended true\n" +
		"        }\n" +
		"        pane size=\"28%\" {\n" +
		"            pane command=\"direnv\" cwd=\"mediactl\" focus=true size=\"60%\" {\n" +
		"                args \"exec\" \".\" \"target/debug/mediactl\" \"tui\"\n" +
		"                start_suspended true\n" +
		"            }\n" +
		"        }\n" +
		"    }\n" +
		"}\n"

	got, changes := Rewrite(input)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rewritten document mismatch (-want +got):\n%s", diff)
	}
	if len(changes) != 2 {
		t.Errorf("expected 2 changes, got %d", len(changes))
	}
}

func TestRewriteDirenvScopeIsPerTab(t *testing.T) {
	input := "tab name=\"dr mediactl\" hide_floating_panes=true {\n" +
		"    pane command=\"/usr/bin/nvim\" {\n" +
		"        args \"notes.md\"\n" +
		"    }\n" +
		"}\n" +
		"tab name=\"mediactl\" hide_floating_panes=true {\n" +
		"    pane command=\"/usr/bin/nvim\" {\n" +
		"        args \"notes.md\"\n" +
		"    }\n" +
		"}\n"
	want := "tab name=\"dr mediactl\" hide_floating_panes=true {\n" +
		"    pane command=\"direnv\" {\n" +
		"        args \"exec\" \".\" \"nvim\" \"notes.md\"\n" +
		"    }\n" +
		"}\n" +
		"tab name=\"mediactl\" hide_floating_panes=true {\n" +
		"    pane command=\"nvim\" {\n" +
		"        args \"notes.md\"\n" +
		"    }\n" +
		"}\n"

	got, _ := Rewrite(input)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rewritten document mismatch (-want +got):\n%s", diff)
	}
}

func TestRewriteInsideLayoutWrapper(t *testing.T) {
	input := "layout {\n" +
		"    tab name=\"dr proj\" {\n" +
		"        pane command=\"cargo\" {\n" +
		"            args \"watch\"\n" +
		"        }\n" +
		"    }\n" +
		"}\n"
	want := "layout {\n" +
		"    tab name=\"dr proj\" {\n" +
		"        pane command=\"direnv\" {\n" +
		"            args \"exec\" \".\" \"cargo\" \"watch\"\n" +
		"        }\n" +
		"    }\n" +
		"}\n"

	got, _ := Rewrite(input)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rewritten document mismatch (-want +got):\n%s", diff)
	}
}

func TestRewriteAlreadySimplified(t *testing.T) {
	input := "pane command=\"nvim\" {\n" +
		"    args \"asdf\" \"file.txt\"\n" +
		"    start_suspended true\n" +
		"}\n"

	got, changes := Rewrite(input)
	if got != input {
		t.Errorf("document changed (-want +got):\n%s", cmp.Diff(input, got))
	}
	if len(changes) != 0 {
		t.Errorf("expected no changes, got %d", len(changes))
	}
}

func TestRewriteSkipsPanesWithoutCommand(t *testing.T) {
	input := "tab name=\"dr proj\" {\n" +
		"    pane size=1 borderless=true\n" +
		"}\n"

	got, changes := Rewrite(input)
	if got != input || len(changes) != 0 {
		t.Errorf("pane without command was touched: %q, %d changes", got, len(changes))
	}
}

func TestRewriteUnparseableContent(t *testing.T) {
	input := "tab name=\"broken {\n    pane\n"

	got, changes := Rewrite(input)
	if got != input {
		t.Error("unparseable content was modified")
	}
	if len(changes) != 0 {
		t.Errorf("expected no changes, got %d", len(changes))
	}
}

func TestRewriteIsIdempotent(t *testing.T) {
	inputs := map[string]string{
		"nvim": "pane command=\"/usr/bin/nvim\" {\n" +
			"    args \"--cmd\" " + luaSnippet + " \"a.txt\"\n" +
			"}\n",
		"direnv": "tab name=\"dr proj\" {\n" +
			"    pane command=\"bacon\" {}\n" +
			"}\n",
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			once, changes := Rewrite(input)
			if len(changes) == 0 {
				t.Fatal("first pass made no changes")
			}
			twice, changes := Rewrite(once)
			if twice != once {
				t.Errorf("second pass changed output (-first +second):\n%s", cmp.Diff(once, twice))
			}
			if len(changes) != 0 {
				t.Errorf("second pass recorded %d changes", len(changes))
			}
		})
	}
}
