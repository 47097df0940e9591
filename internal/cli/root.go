package cli

import (
	"fmt"

	"github.com/pablasso/quill/internal/config"
	"github.com/pablasso/quill/internal/logging"
	"github.com/pablasso/quill/internal/version"
	"github.com/spf13/cobra"
)

var (
	configPath string
	dbPath     string
	serverURL  string
	useMemory  bool
	logLevel   string

	// settings is the resolved configuration for the running command.
	settings     config.Config
	settingsPath string
	closeLog     = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Threaded task comments in the terminal",
	Long: `Quill keeps a thread of comments on each task. Open the panel with
"quill open TASK", or script it with list/add/edit/delete.`,
	Version:            version.Version,
	SilenceUsage:       true,
	PersistentPreRunE:  loadSettings,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return closeLog() },
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default ~/.config/quill/config.yaml)")
	pf.StringVar(&dbPath, "db", "", "SQLite database path (default ~/.quill/comments.db)")
	pf.StringVar(&serverURL, "server", "", "quill server URL to use instead of a local database")
	pf.BoolVar(&useMemory, "memory", false, "keep comments in memory for this session only")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(openCmd, listCmd, addCmd, editCmd, deleteCmd, serveCmd, initCmd, versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadSettings resolves configuration in order of precedence: flags, QUILL_*
// environment (including .env), config file, defaults.
func loadSettings(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	settings = cfg
	settingsPath = path
	return setupLogging(cmd)
}

// setupLogging routes slog output. The panel owns the terminal, so it only
// logs when a log file is configured.
func setupLogging(cmd *cobra.Command) error {
	opts := logging.Options{
		Level:  settings.Log.Level,
		Format: settings.Log.Format,
		File:   settings.Log.File,
	}
	if cmd == openCmd && opts.File == "" {
		logging.Discard()
		closeLog = func() error { return nil }
		return nil
	}

	closeFn, err := logging.Setup(opts)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	closeLog = closeFn
	return nil
}
