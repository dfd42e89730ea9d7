package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/gmedit/internal/ident"
	"github.com/aidanlsb/gmedit/internal/lastresults"
	"github.com/aidanlsb/gmedit/internal/project"
	"github.com/aidanlsb/gmedit/internal/resource"
	"github.com/aidanlsb/gmedit/internal/ui"
)

var lsCmd = &cobra.Command{
	Use:   "ls [kind]",
	Short: "List resources",
	Long: `Lists the project's resources in registration order, optionally only one kind.

Kinds take their short form (object, sprite, room, script, folder...) or the
model name (GMObject).

Examples:
  gme ls
  gme ls object
  gme ls sprite --ids --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		showIDs, _ := cmd.Flags().GetBool("ids")
		start := time.Now()

		proj, warnings, err := openProject()
		if err != nil {
			return handleErr(err, "")
		}
		defer proj.Close()

		kinds := resource.Kinds()
		if len(args) == 1 {
			kind := resource.ParseKindLoose(args[0])
			if kind == resource.KindUnknown {
				return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("unknown resource kind %q", args[0]), "Use a kind such as object, sprite, room or script")
			}
			kinds = []resource.Kind{kind}
		}

		var items []ResourceJSON
		for _, kind := range kinds {
			if kind == resource.KindObjectInstance && len(args) == 0 {
				continue
			}
			for _, rec := range proj.Registry().Records(kind) {
				items = append(items, resourceJSON(rec))
			}
		}
		elapsed := time.Since(start).Milliseconds()
		saveLastResults(proj, lastresults.SourceList, strings.Join(args, " "), items)

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{
				"items": items,
			}, warnings, &Meta{Count: len(items), QueryTimeMs: elapsed})
			return nil
		}

		printWarnings(warnings)
		if len(items) == 0 {
			fmt.Println(ui.Info("No resources found."))
			return nil
		}

		layout := ui.ResourceLayout
		if showIDs {
			layout = ui.ResourceIDLayout
		}
		table := ui.NewResultsTable(ui.NewDisplayContext(), layout)
		for i, item := range items {
			last := item.Path
			if showIDs {
				last = item.ID
			}
			table.AddRow(ui.ResultRow{
				Num:   i + 1,
				Cells: []string{ui.FormatRowNum(i+1, len(items)), item.Name, item.Kind, last},
			})
		}
		fmt.Print(table.Render())
		return nil
	},
}

var treeCmd = &cobra.Command{
	Use:   "tree [kind]",
	Short: "Show the folder tree",
	Long: `Shows the resource folders as a tree, starting at the folder root of each kind.

Examples:
  gme tree
  gme tree object`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, warnings, err := openProject()
		if err != nil {
			return handleErr(err, "")
		}
		defer proj.Close()

		var roots []*resource.Record
		if len(args) == 1 {
			kind := resource.ParseKindLoose(args[0])
			if kind == resource.KindUnknown {
				return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("unknown resource kind %q", args[0]), "")
			}
			root, err := proj.Registry().FindFolderRoot(kind)
			if err != nil {
				return handleErr(err, "")
			}
			roots = append(roots, root)
		} else {
			for _, kind := range resource.Kinds() {
				if root, err := proj.Registry().FindFolderRoot(kind); err == nil {
					roots = append(roots, root)
				}
			}
		}

		if isJSONOutput() {
			nodes := make([]FolderNodeJSON, 0, len(roots))
			for _, root := range roots {
				nodes = append(nodes, folderNodeJSON(proj, root, map[ident.ID]bool{}))
			}
			outputSuccessWithWarnings(map[string]interface{}{"roots": nodes}, warnings, &Meta{Count: len(nodes)})
			return nil
		}

		printWarnings(warnings)
		tree := &ui.Tree{}
		for _, root := range roots {
			tree.Roots = append(tree.Roots, folderTreeNode(proj, root, map[ident.ID]bool{}))
		}
		fmt.Print(tree.String())
		return nil
	},
}

// FolderNodeJSON is one node of `tree --json`.
type FolderNodeJSON struct {
	ResourceJSON
	Children []FolderNodeJSON `json:"children,omitempty"`
}

func folderNodeJSON(proj *project.Project, rec *resource.Record, seen map[ident.ID]bool) FolderNodeJSON {
	node := FolderNodeJSON{ResourceJSON: resourceJSON(rec)}
	seen[rec.ID()] = true
	for _, child := range folderChildren(proj, rec, seen) {
		node.Children = append(node.Children, folderNodeJSON(proj, child, seen))
	}
	return node
}

func folderTreeNode(proj *project.Project, rec *resource.Record, seen map[ident.ID]bool) *ui.TreeNode {
	label := ui.Resource(rec.DisplayName(), rec.Kind().Short())
	node := &ui.TreeNode{Label: label}
	seen[rec.ID()] = true
	for _, child := range folderChildren(proj, rec, seen) {
		node.Children = append(node.Children, folderTreeNode(proj, child, seen))
	}
	return node
}

// folderChildren resolves the children of a folder, skipping dangling ids and
// folders already visited.
func folderChildren(proj *project.Project, rec *resource.Record, seen map[ident.ID]bool) []*resource.Record {
	folder, ok := rec.Folder()
	if !ok {
		return nil
	}
	var out []*resource.Record
	for _, id := range folder.Children() {
		if seen[id] {
			continue
		}
		if child := proj.Resolver().Resolve(id); child != nil {
			out = append(out, child)
		}
	}
	return out
}

func printWarnings(warnings []Warning) {
	for _, w := range warnings {
		fmt.Println(ui.Warning(w.Message))
	}
}

func init() {
	lsCmd.Flags().Bool("ids", false, "Show identifiers instead of file paths")
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(treeCmd)
}
