package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/gmedit/internal/config"
	"github.com/aidanlsb/gmedit/internal/project"
	"github.com/aidanlsb/gmedit/internal/ui"
)

type projectRow struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	IsDefault bool   `json:"is_default"`
	IsActive  bool   `json:"is_active"`
}

type currentProjectInfo struct {
	Name          string `json:"name"`
	Path          string `json:"path"`
	Source        string `json:"source"`
	ActiveMissing bool   `json:"active_missing"`
}

func loadState() (*config.State, error) {
	return config.LoadState(resolvedStatePath)
}

func projectRows(state *config.State) ([]projectRow, bool) {
	activeName := strings.TrimSpace(state.ActiveProject)
	activeMissing := activeName != ""

	names := cfg.ProjectNames()
	rows := make([]projectRow, 0, len(names))
	for _, name := range names {
		rows = append(rows, projectRow{
			Name:      name,
			Path:      cfg.Projects[name],
			IsDefault: name == cfg.DefaultProject,
			IsActive:  name == activeName,
		})
		if name == activeName {
			activeMissing = false
		}
	}
	return rows, activeMissing
}

func resolveCurrentProject(state *config.State) (*currentProjectInfo, error) {
	activeName := strings.TrimSpace(state.ActiveProject)
	if activeName != "" {
		if path, err := cfg.GetProjectPath(activeName); err == nil {
			return &currentProjectInfo{Name: activeName, Path: path, Source: "active_project"}, nil
		}
	}

	path, err := cfg.GetProjectPath("")
	if err != nil {
		if activeName != "" {
			return nil, fmt.Errorf("active project '%s' not found in config and no default project configured", activeName)
		}
		return nil, err
	}
	source := "default_project"
	if activeName != "" {
		source = "default_project_fallback"
	}
	return &currentProjectInfo{
		Name:          cfg.DefaultProject,
		Path:          path,
		Source:        source,
		ActiveMissing: activeName != "",
	}, nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
	state, err := loadState()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}

	rows, activeMissing := projectRows(state)
	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"config_path":     resolvedConfigPath,
			"state_path":      resolvedStatePath,
			"default_project": cfg.DefaultProject,
			"active_project":  state.ActiveProject,
			"active_missing":  activeMissing,
			"recent_projects": state.RecentProjects,
			"projects":        rows,
		}, &Meta{Count: len(rows)})
		return nil
	}

	if len(rows) == 0 {
		fmt.Println("No projects configured.")
		fmt.Printf("Config: %s\n", resolvedConfigPath)
		fmt.Println()
		fmt.Println("Add one with:")
		fmt.Println()
		fmt.Println("  gme project add platformer /path/to/Platformer")
		return nil
	}

	for _, row := range rows {
		prefix := "  "
		if row.IsActive && row.IsDefault {
			prefix = ">*"
		} else if row.IsActive {
			prefix = "> "
		} else if row.IsDefault {
			prefix = " *"
		}
		fmt.Printf("%s %-12s -> %s\n", prefix, row.Name, row.Path)
	}

	fmt.Println()
	fmt.Println("> = active project (state)")
	fmt.Println("* = default project (config)")
	fmt.Printf("config: %s\n", resolvedConfigPath)
	fmt.Printf("state:  %s\n", resolvedStatePath)
	if activeMissing {
		fmt.Println(ui.Warningf("active project '%s' in state is not configured", state.ActiveProject))
	}
	return nil
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage configured projects and the active selection",
	Long: `Manage configured projects and the active selection.

The active project is stored in state.toml.
The default project is stored in config.toml and used as fallback.`,
	Args: cobra.NoArgs,
	RunE: runProjectList,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectList,
}

var projectCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the current resolved project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := loadState()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		current, err := resolveCurrentProject(state)
		if err != nil {
			return handleError(ErrProjectNotSpecified, err, "Use 'gme project use <name>' or set default_project in config.toml")
		}

		if isJSONOutput() {
			outputSuccess(current, nil)
			return nil
		}
		fmt.Printf("current: %s\n", current.Name)
		fmt.Printf("path:    %s\n", current.Path)
		fmt.Printf("source:  %s\n", current.Source)
		if current.ActiveMissing {
			fmt.Println(ui.Warningf("active project '%s' is missing; using default", state.ActiveProject))
		}
		return nil
	},
}

var projectUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the active project in state.toml",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		state, err := loadState()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		path, err := cfg.GetProjectPath(name)
		if err != nil {
			return handleError(ErrProjectNotFound, err, "Run 'gme project list' to see configured projects")
		}

		state.UseProject(name)
		if err := config.SaveState(resolvedStatePath, state); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"active_project": name,
				"path":           path,
				"state_path":     resolvedStatePath,
			}, nil)
			return nil
		}
		fmt.Printf("Active project set to '%s' -> %s\n", name, path)
		fmt.Printf("state: %s\n", resolvedStatePath)
		return nil
	},
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name> <path>",
	Short: "Add a project to config.toml",
	Long: `Adds a named project. The path is a directory holding exactly one .yyp, or
the .yyp itself.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if name == "" {
			return handleErrorMsg(ErrMissingArgument, "project name is required", "")
		}
		absPath, err := filepath.Abs(strings.TrimSpace(args[1]))
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}
		if _, err := project.Find(absPath); err != nil {
			return handleErr(err, "")
		}

		if existing, ok := cfg.Projects[name]; ok && existing != absPath {
			return handleErrorMsg(ErrResourceExists,
				fmt.Sprintf("project '%s' already points at %s", name, existing), "")
		}
		if cfg.Projects == nil {
			cfg.Projects = map[string]string{}
		}
		cfg.Projects[name] = absPath
		if cfg.DefaultProject == "" {
			cfg.DefaultProject = name
		}
		if err := config.SaveTo(resolvedConfigPath, cfg); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"name":            name,
				"path":            absPath,
				"default_project": cfg.DefaultProject,
				"config_path":     resolvedConfigPath,
			}, nil)
			return nil
		}
		fmt.Printf("Added project '%s' -> %s\n", name, absPath)
		fmt.Printf("config: %s\n", resolvedConfigPath)
		return nil
	},
}

var projectClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the active project from state.toml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := loadState()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		prev := state.ActiveProject
		state.ActiveProject = ""
		if err := config.SaveState(resolvedStatePath, state); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"cleared":    true,
				"previous":   prev,
				"state_path": resolvedStatePath,
			}, nil)
			return nil
		}
		if prev == "" {
			fmt.Println("Active project already clear.")
		} else {
			fmt.Printf("Cleared active project '%s'.\n", prev)
		}
		return nil
	},
}

func init() {
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectCurrentCmd)
	projectCmd.AddCommand(projectUseCmd)
	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectClearCmd)
	rootCmd.AddCommand(projectCmd)
}
