package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/gmedit/internal/check"
	"github.com/aidanlsb/gmedit/internal/ui"
)

// IssueJSON is the JSON representation of a check issue.
type IssueJSON struct {
	Level   string `json:"level"`
	File    string `json:"file,omitempty"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check project integrity",
	Long: `Validates the project: resources that failed to load, duplicate ids,
references to missing resources, parent cycles, invalid names, kinds with no
folder root and event scripts missing from disk.

Exits non-zero when errors are found.

Examples:
  gme check
  gme check --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, _, err := openProject()
		if err != nil {
			return handleErr(err, "")
		}
		defer proj.Close()

		issues := check.NewValidator(proj).Run()
		errs, warns := check.Count(issues)

		if isJSONOutput() {
			items := make([]IssueJSON, len(issues))
			for i, issue := range issues {
				items[i] = IssueJSON{
					Level:   issue.Level.String(),
					File:    issue.FilePath,
					ID:      string(issue.ID),
					Message: issue.Message,
				}
			}
			data := map[string]interface{}{
				"resources": proj.Registry().Len(),
				"errors":    errs,
				"warnings":  warns,
				"issues":    items,
			}
			if errs > 0 {
				return handleErrorWithDetails(ErrValidationFailed, fmt.Sprintf("%d errors found", errs), "", data)
			}
			outputSuccess(data, &Meta{Count: len(items)})
			return nil
		}

		for _, issue := range issues {
			loc := ""
			if issue.FilePath != "" {
				loc = ui.FilePath(issue.FilePath) + ": "
			}
			switch issue.Level {
			case check.LevelError:
				fmt.Println(ui.Error(loc + issue.Message))
			default:
				fmt.Println(ui.Warning(loc + issue.Message))
			}
		}

		if len(issues) == 0 {
			fmt.Println(ui.Successf("No issues in %d resources", proj.Registry().Len()))
			return nil
		}
		fmt.Printf("\n%s %s\n", ui.Header("Checked "+proj.Name()), ui.ErrorWarningCounts(errs, warns))
		if errs > 0 {
			return fmt.Errorf("check failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
