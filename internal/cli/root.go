package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/gmedit/internal/config"
	"github.com/aidanlsb/gmedit/internal/logging"
	"github.com/aidanlsb/gmedit/internal/ui"
)

var (
	// Global flags
	projectName     string // Named project from config
	projectPathFlag string // Explicit path
	configPath      string
	statePathFlag   string
	debugLogging    bool

	// Resolved values
	resolvedProjectPath string
	resolvedConfigPath  string
	resolvedStatePath   string
	cfg                 *config.Config
	logger              = logging.Discard()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gme",
	Short: "gmedit - inspect and edit GameMaker projects from the terminal",
	Long: `gmedit loads a GameMaker Studio 2 project (.yyp plus one .yy per resource),
resolves the references between its resources and edits objects, scripts and
event code without opening the IDE.

Every edit goes through the same editors the IDE model uses: changes are held
as scratch state and written back file by file on save.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		resolvedStatePath = config.ResolveStatePath(statePathFlag, resolvedConfigPath, cfg)
		ui.ConfigureTheme(cfg.UI.Accent)

		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "Set log_level to debug, info, warn or error")
		}
		if debugLogging {
			level = slog.LevelDebug
		}
		logger = logging.New(os.Stderr, level)

		// Skip project resolution for commands that don't need it
		switch cmd.Name() {
		case "project", "completion", "help", "version":
			return nil
		}
		if cmd.Parent() != nil && (cmd.Parent().Name() == "completion" || cmd.Parent().Name() == "project") {
			return nil
		}

		resolvedProjectPath, err = resolveProjectPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(resolvedProjectPath); os.IsNotExist(err) {
			return fmt.Errorf("project not found: %s", resolvedProjectPath)
		}
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectName, "project", "p", "", "Named project from config")
	rootCmd.PersistentFlags().StringVar(&projectPathFlag, "project-path", "", "Explicit path to a project directory or .yyp")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&statePathFlag, "state", "", "Path to state file (overrides state_file in config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for script use)")
	rootCmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "Log debug diagnostics to stderr")
}

// resolveProjectPath applies: explicit path > named project > active state > default.
func resolveProjectPath() (string, error) {
	if projectPathFlag != "" {
		return projectPathFlag, nil
	}
	if projectName != "" {
		path, err := cfg.GetProjectPath(projectName)
		if err != nil {
			return "", fmt.Errorf("project '%s' not found\n\nRun 'gme project list' to see configured projects", projectName)
		}
		return path, nil
	}

	state, err := config.LoadState(resolvedStatePath)
	if err != nil {
		return "", fmt.Errorf("failed to load state: %w", err)
	}
	if active := strings.TrimSpace(state.ActiveProject); active != "" {
		path, err := cfg.GetProjectPath(active)
		if err == nil {
			return path, nil
		}
		path, err = cfg.GetProjectPath("")
		if err != nil {
			return "", fmt.Errorf("active project '%s' not found in config and no default project configured\n\nRun 'gme project use <name>' or set default_project in config.toml", active)
		}
		logger.Warn("active project not found in config, falling back to default", "project", active)
		return path, nil
	}

	path, err := cfg.GetProjectPath("")
	if err != nil {
		return "", fmt.Errorf(`no project specified

Either:
  1. Use --project <name> (from config)
  2. Use --project-path /path/to/game
  3. Run 'gme project use <name>' to set active_project in state.toml
  4. Set default_project in ~/.config/gmedit/config.toml`)
	}
	return path, nil
}

func loadGlobalConfigWithPath() (*config.Config, string, error) {
	resolvedPath := config.ResolveConfigPath(configPath)

	var loadedCfg *config.Config
	var err error
	if strings.TrimSpace(configPath) != "" {
		loadedCfg, err = config.LoadFrom(configPath)
	} else {
		loadedCfg, err = config.Load()
	}
	if err != nil {
		return nil, "", err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}

	return loadedCfg, resolvedPath, nil
}
