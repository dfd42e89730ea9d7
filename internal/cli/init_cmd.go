package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/gmedit/internal/config"
	"github.com/aidanlsb/gmedit/internal/project"
	"github.com/aidanlsb/gmedit/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write default configuration files",
	Long: `Writes a commented gmedit.yaml next to the project's .yyp and, when missing,
the global config.toml. Existing files are left alone.

Examples:
  gme init --project-path ./Platformer`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := project.Find(resolvedProjectPath)
		if err != nil {
			return handleErr(err, "")
		}
		root := filepath.Dir(file)

		created, err := config.CreateProjectConfig(root)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		globalPath, err := config.CreateDefault(resolvedConfigPath)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		projectConfig := filepath.Join(root, config.ProjectConfigFile)
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"project_config": projectConfig,
				"created":        created,
				"config_path":    globalPath,
			}, nil)
			return nil
		}
		if created {
			fmt.Println(ui.Successf("Created %s", ui.FilePath(projectConfig)))
		} else {
			fmt.Println(ui.Infof("%s already exists", ui.FilePath(projectConfig)))
		}
		fmt.Printf("config: %s\n", globalPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
