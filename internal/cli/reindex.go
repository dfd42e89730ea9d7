package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/gmedit/internal/index"
	"github.com/aidanlsb/gmedit/internal/ui"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the resource index",
	Long: `Loads every resource and rebuilds the SQLite index in .gmedit/index.db that
backs stats and backlinks.

With --reset the database file is deleted first, which also recovers from a
damaged index. --reset asks for confirmation unless --yes is given.

Examples:
  gme reindex
  gme reindex --reset --yes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reset, _ := cmd.Flags().GetBool("reset")
		yes, _ := cmd.Flags().GetBool("yes")

		proj, warnings, err := openProject()
		if err != nil {
			return handleErr(err, "")
		}
		defer proj.Close()

		if reset {
			if !yes && !promptForConfirm("Delete and rebuild "+index.Path(proj.Root())+"?") {
				return handleErrorMsg(ErrConfirmRequired, "reset not confirmed", "Pass --yes to reset without a prompt")
			}
			if err := index.Remove(proj.Root()); err != nil {
				return handleError(ErrDatabaseError, err, "")
			}
		}

		db, wasReset, err := index.OpenWithRebuild(proj.Root())
		if err != nil {
			return handleErr(err, "")
		}
		defer db.Close()

		var spin *ui.Spinner
		if !isJSONOutput() {
			printWarnings(warnings)
			if wasReset {
				fmt.Println(ui.Info("Index schema was outdated - rebuilding from scratch."))
			}
			spin = ui.NewSpinner(fmt.Sprintf("Indexing %d resources in %s", proj.Registry().Len(), proj.Root()))
			spin.Start()
		}
		result, err := db.Rebuild(proj)
		if spin != nil {
			spin.Stop()
		}
		if err != nil {
			return handleError(ErrDatabaseError, err, "Run 'gme reindex --reset' to start from an empty index")
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{
				"indexed": result.Indexed,
				"refs":    result.Refs,
				"reset":   reset || wasReset,
			}, warnings, nil)
			return nil
		}
		fmt.Println(ui.Check(fmt.Sprintf("Indexed %d resources and %d references", result.Indexed, result.Refs)))
		return nil
	},
}

func init() {
	reindexCmd.Flags().Bool("reset", false, "Delete the index database before rebuilding")
	reindexCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(reindexCmd)
}
