package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/notedraft/internal/app"
	"github.com/dshills/notedraft/internal/config"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "notedraft",
	Short: "Draft Nostr notes with paste-aware undo",
	Long: `notedraft composes short Nostr notes.

Edits made right after a paste get their own undo group, so one undo
never takes back both the paste and what you typed after it. Image URLs
in a note are split out for preview.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip validation for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		switch logLevel {
		case "", "debug", "info", "warn", "error":
			return nil
		default:
			return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", logLevel)
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion sets the version reported by --version.
func SetVersion(version, commit, date string) {
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// loadConfig loads the configuration named by --config, applying --log-level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

// newApp starts an application session from the global flags.
func newApp(stderr io.Writer, watch, readOnly bool) (*app.Application, error) {
	return app.New(app.Options{
		ConfigPath: configPath,
		LogLevel:   logLevel,
		LogOutput:  stderr,
		Watch:      watch,
		ReadOnly:   readOnly,
	})
}
