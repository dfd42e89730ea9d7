package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/gmedit/internal/ident"
	"github.com/aidanlsb/gmedit/internal/lastresults"
	"github.com/aidanlsb/gmedit/internal/project"
	"github.com/aidanlsb/gmedit/internal/resolve"
	"github.com/aidanlsb/gmedit/internal/resource"
	"github.com/aidanlsb/gmedit/internal/ui"
)

var childrenCmd = &cobra.Command{
	Use:   "children <object>",
	Short: "List objects whose parent is the given object",
	Long: `Lists the direct children of an object, or every descendant with --all.

Examples:
  gme children obj_enemy_base
  gme children obj_enemy_base --all`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		return runHierarchy(args[0], lastresults.SourceChildren, func(proj *project.Project, id ident.ID) ([]ident.ID, error) {
			if all {
				return proj.Resolver().Descendants(id)
			}
			return proj.Resolver().Children(id), nil
		})
	},
}

var ancestorsCmd = &cobra.Command{
	Use:   "ancestors <object>",
	Short: "Show an object's parent chain",
	Long: `Shows the parent, grandparent and so on of an object. A parent cycle is
reported with the ids that form it.

Examples:
  gme ancestors obj_boss`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHierarchy(args[0], lastresults.SourceAncestors, func(proj *project.Project, id ident.ID) ([]ident.ID, error) {
			return proj.Resolver().Ancestors(id)
		})
	},
}

var parentsCmd = &cobra.Command{
	Use:   "parents <object>",
	Short: "List objects that can become an object's parent",
	Long: `Lists the objects offered as a parent choice: everything under the objects
folder except the object itself and its descendants.

Examples:
  gme parents obj_player`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHierarchy(args[0], lastresults.SourceParents, func(proj *project.Project, id ident.ID) ([]ident.ID, error) {
			return proj.Resolver().Selectable(resource.KindObject, id)
		})
	},
}

// hierarchyKeys names the JSON list each hierarchy command returns.
var hierarchyKeys = map[lastresults.Source]string{
	lastresults.SourceChildren:  "children",
	lastresults.SourceAncestors: "ancestors",
	lastresults.SourceParents:   "candidates",
}

func runHierarchy(ref string, source lastresults.Source, walk func(*project.Project, ident.ID) ([]ident.ID, error)) error {
	proj, warnings, err := openProject()
	if err != nil {
		return handleErr(err, "")
	}
	defer proj.Close()

	rec, _, err := lookupObject(proj, ref)
	if err != nil {
		return handleErr(err, "")
	}

	ids, err := walk(proj, rec.ID())
	var cycle *resolve.CycleError
	if errors.As(err, &cycle) {
		// The walk stops at the cycle; report what was found alongside it.
		warnings = append(warnings, Warning{
			Code:    ErrParentCycle,
			Message: cycle.Error(),
			Ref:     string(rec.ID()),
		})
	} else if err != nil {
		return handleErr(err, "")
	}

	items := describeIDs(proj, ids)
	saveLastResults(proj, source, rec.Name(), items)
	key := hierarchyKeys[source]
	if isJSONOutput() {
		outputSuccessWithWarnings(map[string]interface{}{
			"object": resourceJSON(rec),
			key:      items,
		}, warnings, &Meta{Count: len(items)})
		return nil
	}

	printWarnings(warnings)
	if len(items) == 0 {
		fmt.Printf("No %s for %s\n", key, ui.Resource(rec.Name(), rec.Kind().Short()))
		return nil
	}
	fmt.Printf("%s of %s:\n", key, ui.Resource(rec.Name(), rec.Kind().Short()))
	for i, item := range items {
		fmt.Printf("  %s %s %s\n", ui.FormatRowNum(i+1, len(items)), ui.Bullet(), item.Name)
	}
	return nil
}

func init() {
	childrenCmd.Flags().Bool("all", false, "Include every descendant")
	rootCmd.AddCommand(childrenCmd)
	rootCmd.AddCommand(ancestorsCmd)
	rootCmd.AddCommand(parentsCmd)
}
