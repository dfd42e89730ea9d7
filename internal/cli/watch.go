package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/gmedit/internal/ui"
	"github.com/aidanlsb/gmedit/internal/watcher"
)

// ChangeJSON is one line of `gme watch --json`.
type ChangeJSON struct {
	Path     string        `json:"path"`
	Removed  bool          `json:"removed,omitempty"`
	Resource *ResourceJSON `json:"resource,omitempty"`
	Error    string        `json:"error,omitempty"`
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the project and keep the index current",
	Long: `Watches the project directory and reloads .yy files as they change, keeping
the registry and the index in step.

The watcher:
- Monitors every resource .yy listed in the .yyp
- Debounces rapid changes (watch.debounce_ms in gmedit.yaml)
- Ignores .gmedit/, .git/ and watch.ignore_dirs
- Keeps the previous version of a resource whose new content fails to parse

With --json each applied change is printed as one JSON object per line.

Examples:
  gme watch
  gme watch --debug`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	proj, warnings, err := openProject()
	if err != nil {
		return handleErr(err, "")
	}
	defer proj.Close()

	db, indexWarnings, err := openIndex(proj)
	if err != nil {
		return handleError(ErrDatabaseError, err, "Run 'gme reindex' to rebuild the database")
	}
	defer db.Close()
	if !isJSONOutput() {
		printWarnings(append(warnings, indexWarnings...))
	}

	w, err := watcher.New(watcher.Config{
		Project:  proj,
		Database: db,
		Logger:   logger,
		OnChange: printChange,
	})
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !isJSONOutput() {
		fmt.Printf("Watching project: %s\n", ui.FilePath(proj.Root()))
		fmt.Println(ui.Hint("Press Ctrl+C to stop"))
	}

	err = w.Start(ctx)
	if errors.Is(err, context.Canceled) {
		if !isJSONOutput() {
			fmt.Println("\nStopped watching.")
		}
		return nil
	}
	return err
}

func printChange(c watcher.Change) {
	if isJSONOutput() {
		out := ChangeJSON{Path: c.Path, Removed: c.Removed}
		if c.Record != nil {
			r := resourceJSON(c.Record)
			out.Resource = &r
		}
		if c.Err != nil {
			out.Error = c.Err.Error()
		}
		printJSONLine(out)
		return
	}

	switch {
	case c.Err != nil:
		fmt.Println(ui.Errorf("%s: %v", c.Path, c.Err))
	case c.Removed:
		fmt.Println(ui.Infof("Removed %s", ui.FilePath(c.Path)))
	case c.Record != nil:
		fmt.Println(ui.Successf("Reloaded %s", ui.Resource(c.Record.DisplayName(), c.Record.Kind().Short())))
	}
}
