// Package commands implements the mirrorbank command line.
package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/mirrorbank/backend/internal/config"
	"github.com/mirrorbank/backend/internal/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app is shared by all commands. It is set up before any command runs.
type app struct {
	cfg config.Config
}

// NewRootCommand creates the root CLI command with all subcommands registered.
// Without a subcommand, the API server is started.
func NewRootCommand() *cobra.Command {
	a := &app{}

	serve := newServeCommand(a)

	rootCmd := &cobra.Command{
		Use:   "mirrorbank",
		Short: "Personal finance tracker backend",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		RunE: serve.RunE,
	}

	rootCmd.AddCommand(serve)
	rootCmd.AddCommand(newEvaluateCommand(a))
	rootCmd.AddCommand(newReconcileCommand(a))

	return rootCmd
}

// setup reads the configuration, configures logging and connects to the database.
func (a *app) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	setupLogging(cfg, os.Stdout)

	// Create data directory
	err = os.MkdirAll(filepath.Dir(cfg.DBPath), os.ModePerm)
	if err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	return models.Connect(cfg.DBPath)
}

// setupLogging configures gin and the global logger.
//
// Log format can be explicitly set. If it is not set, it defaults to human
// readable for development and JSON for release.
func setupLogging(cfg config.Config, out io.Writer) {
	gin.SetMode(cfg.GinMode)

	output := out
	if (cfg.LogFormat == "" && gin.IsDebugging()) || cfg.LogFormat == "human" {
		output = zerolog.ConsoleWriter{Out: out}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()
}
