package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/gmedit/internal/ui"
)

var newCmd = &cobra.Command{
	Use:   "new object <name>",
	Short: "Create a resource",
	Long: `Creates a new object. The name is turned into a resource name with the
project's object prefix (naming.object_prefix in gmedit.yaml, "obj_" by default):
"Big Enemy" becomes obj_big_enemy.

The object's .yy is written, listed in the .yyp and added to the objects folder.

Examples:
  gme new object "Big Enemy"
  gme new object coin --json`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] != "object" {
			return handleErrorMsg(ErrUnsupportedKind,
				fmt.Sprintf("cannot create a %s", args[0]),
				"Only objects can be created: gme new object <name>")
		}
		display := strings.Join(args[1:], " ")

		proj, warnings, err := openProject()
		if err != nil {
			return handleErr(err, "")
		}
		defer proj.Close()

		rec, err := proj.NewObject(display)
		if err != nil {
			return handleErr(err, "")
		}

		// The index is rebuilt from the loaded project when stale, so a failure
		// here only costs the next command a rebuild.
		if db, _, err := openIndex(proj); err == nil {
			if err := indexRecord(db, proj, rec); err != nil {
				logger.Warn("failed to index new object", "name", rec.Name(), "error", err)
			}
			if folder, err := proj.Registry().FindFolderRoot(rec.Kind()); err == nil {
				if err := indexRecord(db, proj, folder); err != nil {
					logger.Warn("failed to index folder", "name", folder.DisplayName(), "error", err)
				}
			}
			db.Close()
		} else {
			logger.Debug("index unavailable, skipping", "error", err)
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(resourceJSON(rec), warnings, nil)
			return nil
		}
		printWarnings(warnings)
		fmt.Println(ui.Successf("Created %s", ui.Resource(rec.Name(), rec.Kind().Short())))
		fmt.Println(ui.Hint("  " + rec.Path()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
