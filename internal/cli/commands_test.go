package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func walkCommands(cmd *cobra.Command, fn func(path string, cmd *cobra.Command)) {
	for _, child := range cmd.Commands() {
		if child.Hidden || child.Name() == "help" || child.Name() == "completion" {
			continue
		}
		fn(strings.TrimPrefix(child.CommandPath(), rootCmd.Name()+" "), child)
		walkCommands(child, fn)
	}
}

func TestCommandsAreDocumented(t *testing.T) {
	walkCommands(rootCmd, func(path string, cmd *cobra.Command) {
		if cmd.Short == "" {
			t.Errorf("%s: missing short description", path)
		}
		cmd.LocalFlags().VisitAll(func(flag *pflag.Flag) {
			if flag.Name != "help" && flag.Usage == "" {
				t.Errorf("%s --%s: missing usage", path, flag.Name)
			}
		})
	})
}

func TestExpectedCommandsRegistered(t *testing.T) {
	want := []string{
		"ls", "show", "tree", "children", "ancestors", "parents", "events", "event",
		"set", "new", "check", "reindex", "stats", "backlinks", "watch", "init", "last", "version",
		"project", "project list", "project use", "project current", "project add", "project clear",
	}
	found := map[string]bool{}
	walkCommands(rootCmd, func(path string, cmd *cobra.Command) {
		found[path] = true
	})
	for _, path := range want {
		if !found[path] {
			t.Errorf("command %q is not registered", path)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	for _, name := range []string{"project", "project-path", "config", "state", "json", "debug"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing global flag --%s", name)
		}
	}
	if f := rootCmd.PersistentFlags().ShorthandLookup("p"); f == nil || f.Name != "project" {
		t.Error("-p should be shorthand for --project")
	}
}
