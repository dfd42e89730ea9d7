package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/gmedit/internal/ident"
	"github.com/aidanlsb/gmedit/internal/index"
	"github.com/aidanlsb/gmedit/internal/lastresults"
	"github.com/aidanlsb/gmedit/internal/ui"
)

// BacklinkJSON is the JSON representation of a backlink.
type BacklinkJSON struct {
	SourceID   string `json:"source_id"`
	SourceKind string `json:"source_kind"`
	SourceName string `json:"source_name"`
	Field      string `json:"field"`
	FilePath   string `json:"file_path"`
}

func backlinkJSON(ref index.RefResult) BacklinkJSON {
	return BacklinkJSON{
		SourceID:   ref.SourceID,
		SourceKind: ref.SourceKind,
		SourceName: ref.SourceName,
		Field:      ref.Field,
		FilePath:   ref.FilePath,
	}
}

var backlinksCmd = &cobra.Command{
	Use:   "backlinks <ref>",
	Short: "Show resources that reference a resource",
	Long: `Shows every reference pointing at a resource: objects using it as parent,
sprite or mask, room instances of an object, folders holding it.

Examples:
  gme backlinks obj_enemy
  gme backlinks spr_player --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		proj, warnings, err := openProject()
		if err != nil {
			return handleErr(err, "")
		}
		defer proj.Close()

		// Ids that are no longer registered are looked up in the index directly,
		// so references left dangling by a removed file can still be traced.
		target := ident.ID(args[0])
		if rec, err := lookup(proj, args[0]); err == nil {
			target = rec.ID()
		} else if !ident.Valid(target) {
			return handleErr(err, "Run 'gme ls' to see resource names")
		}

		db, indexWarnings, err := openIndex(proj)
		if err != nil {
			return handleError(ErrDatabaseError, err, "Run 'gme reindex' to rebuild the database")
		}
		defer db.Close()
		warnings = append(warnings, indexWarnings...)

		links, err := db.Backlinks(target)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		elapsed := time.Since(start).Milliseconds()

		sources := make([]ResourceJSON, len(links))
		for i, link := range links {
			sources[i] = ResourceJSON{ID: link.SourceID, Kind: link.SourceKind, Name: link.SourceName}
		}
		saveLastResults(proj, lastresults.SourceBacklinks, args[0], sources)

		if isJSONOutput() {
			items := make([]BacklinkJSON, len(links))
			for i, link := range links {
				items[i] = backlinkJSON(link)
			}
			outputSuccessWithWarnings(map[string]interface{}{
				"target": string(target),
				"items":  items,
			}, warnings, &Meta{Count: len(items), QueryTimeMs: elapsed})
			return nil
		}

		// Human-readable output
		printWarnings(warnings)
		if len(links) == 0 {
			fmt.Printf("No backlinks found for '%s'\n", args[0])
			return nil
		}

		fmt.Printf("Backlinks to '%s':\n\n", args[0])
		table := ui.NewResultsTable(ui.NewDisplayContext(), ui.BacklinksLayout)
		for i, link := range links {
			name := link.SourceName
			if name == "" {
				name = link.SourceID
			}
			table.AddRow(ui.ResultRow{
				Num:   i + 1,
				Cells: []string{ui.FormatRowNum(i+1, len(links)), name, link.Field, link.FilePath},
			})
		}
		fmt.Print(table.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backlinksCmd)
}
