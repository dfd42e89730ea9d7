package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/gmedit/internal/lastresults"
	"github.com/aidanlsb/gmedit/internal/ui"
)

var lastCmd = &cobra.Command{
	Use:   "last [number...]",
	Short: "Show or select rows from the last listing",
	Long: `Shows the numbered rows printed by the most recent ls, children, ancestors,
parents or backlinks command.

With numbers, prints the selected ids one per line. Any command that takes a
resource also accepts a row number directly.

Examples:
  gme ls object
  gme last
  gme last 2 3
  gme show 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, _, err := openProject()
		if err != nil {
			return handleErr(err, "")
		}
		defer proj.Close()

		lr, err := lastresults.Read(proj.Root())
		if errors.Is(err, lastresults.ErrNoLastResults) {
			return handleErrorMsg(ErrMissingArgument, "no listing results available",
				"Run 'gme ls' first, then use 'gme last' to see or select rows")
		} else if err != nil {
			return handleError(ErrInternal, err, "")
		}

		selected := lr.Results
		if len(args) > 0 {
			selected = make([]lastresults.Entry, 0, len(args))
			for _, arg := range args {
				num, ok := lastresults.ParseNumber(arg)
				if !ok {
					return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("%q is not a row number", arg), "")
				}
				entry, err := lr.Get(num)
				if err != nil {
					return handleErrorMsg(ErrInvalidInput, err.Error(),
						fmt.Sprintf("Last listing returned %d rows", len(lr.Results)))
				}
				selected = append(selected, entry)
			}
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"source":    lr.Source,
				"target":    lr.Target,
				"timestamp": lr.Timestamp,
				"items":     selected,
			}, &Meta{Count: len(selected)})
			return nil
		}

		if len(args) > 0 {
			for _, e := range selected {
				fmt.Println(e.ID)
			}
			return nil
		}

		title := "gme " + string(lr.Source)
		if lr.Target != "" {
			title += " " + lr.Target
		}
		fmt.Printf("%s %s\n", ui.Header(title), ui.Hint(fmt.Sprintf("(%s)", formatAge(time.Since(lr.Timestamp)))))
		if len(selected) == 0 {
			fmt.Println(ui.Info("No rows."))
			return nil
		}
		for i, e := range selected {
			fmt.Printf("  %s %s\n", ui.FormatRowNum(i+1, len(selected)), ui.Resource(e.Name, e.Kind))
		}
		return nil
	},
}

// formatAge renders a duration the way people say it: "just now", "5m ago".
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func init() {
	rootCmd.AddCommand(lastCmd)
}
