package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/gmedit/internal/ui"
)

// StatsResult is the JSON representation of `gme stats`.
type StatsResult struct {
	FileCount     int            `json:"file_count"`
	ResourceCount int            `json:"resource_count"`
	RefCount      int            `json:"ref_count"`
	DanglingCount int            `json:"dangling_count"`
	ByKind        map[string]int `json:"by_kind"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	Long: `Displays statistics about the project index. The index is rebuilt first when
it is missing or stale and auto_reindex is on.

Examples:
  gme stats
  gme stats --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

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
		warnings = append(warnings, indexWarnings...)

		stats, err := db.Stats()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		dangling, err := db.DanglingRefs()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		elapsed := time.Since(start).Milliseconds()

		if isJSONOutput() {
			outputSuccessWithWarnings(StatsResult{
				FileCount:     stats.FileCount,
				ResourceCount: stats.ResourceCount,
				RefCount:      stats.RefCount,
				DanglingCount: len(dangling),
				ByKind:        stats.ByKind,
			}, warnings, &Meta{QueryTimeMs: elapsed})
			return nil
		}

		// Human-readable output
		printWarnings(warnings)
		fmt.Println(ui.Header("Project Statistics"))
		fmt.Printf("%s  %s\n", ui.Muted.Render("Files:     "), ui.Accent.Render(fmt.Sprintf("%d", stats.FileCount)))
		fmt.Printf("%s  %s\n", ui.Muted.Render("Resources: "), ui.Accent.Render(fmt.Sprintf("%d", stats.ResourceCount)))
		fmt.Printf("%s  %s\n", ui.Muted.Render("References:"), ui.Accent.Render(fmt.Sprintf("%d", stats.RefCount)))
		fmt.Printf("%s  %s\n", ui.Muted.Render("Dangling:  "), ui.Accent.Render(fmt.Sprintf("%d", len(dangling))))

		kinds := make([]string, 0, len(stats.ByKind))
		for kind := range stats.ByKind {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		t := ui.NewTable(2)
		for _, kind := range kinds {
			t.AddRow("  "+ui.Muted.Render(kind), fmt.Sprintf("%d", stats.ByKind[kind]))
		}
		fmt.Print(t.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
