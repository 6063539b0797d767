package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfdeck/internal/app"
	"github.com/ternarybob/pdfdeck/internal/common"
)

var (
	// Global flags
	configFiles []string
	logLevel    string

	// Global state, set up before any command runs
	config      *common.Config
	logger      arbor.ILogger
	application *app.App
)

var rootCmd = &cobra.Command{
	Use:               "pdfdeck",
	Short:             "Convert PDF documents into slide decks",
	Long:              `pdfdeck renders every page of a PDF onto its own slide and saves the result as a .pptx presentation. It can also pull plain text out of .docx files.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&configFiles, "config", "c", nil, "Configuration file path (repeatable, later files override earlier ones)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(convertCmd, extractCmd, infoCmd, historyCmd, versionCmd)
}

func main() {
	defer common.RecoverWithCrashFile()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup runs in order: config (defaults -> files -> env -> flags), validation,
// logger, application
func setup(cmd *cobra.Command, args []string) error {
	if len(configFiles) == 0 {
		if _, err := os.Stat("pdfdeck.toml"); err == nil {
			configFiles = append(configFiles, "pdfdeck.toml")
		}
	}

	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	common.ApplyFlagOverrides(config, convertOutDir, logLevel)

	if err := config.Validate(); err != nil {
		return err
	}

	logger = common.SetupLogger(config)
	common.InstallCrashHandler(config.Logging.Dir)

	logger.Debug().
		Strs("config_files", configFiles).
		Str("log_level", config.Logging.Level).
		Strs("log_output", config.Logging.Output).
		Str("output_dir", config.Output.Dir).
		Msg("Resolved configuration")

	application, err = app.New(config, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return nil
}

func teardown(cmd *cobra.Command, args []string) {
	if application == nil {
		return
	}
	if err := application.Close(); err != nil {
		logger.Warn().Err(err).Msg("Failed to close application")
	}
}
