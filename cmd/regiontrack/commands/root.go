// Package commands implements the CLI commands for regiontrack.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/regiontrack/internal/build"
	"go.trai.ch/regiontrack/internal/core/domain"
	"go.trai.ch/regiontrack/internal/engine/tracker"
	"go.trai.ch/zerr"
)

// Application is the behavior the CLI needs from the application layer.
type Application interface {
	Track(ctx context.Context, path string, overrides domain.TrackSettings) (*tracker.Result, error)
	ConfigureLogging(level domain.LogLevel, json bool)
}

// CLI represents the command line interface for regiontrack.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "regiontrack",
		Short:         "Track labeled regions across image sequences",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().String("log-level", "info", "Minimum log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRunE = c.configureLogging

	rootCmd.AddCommand(c.newTrackCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error writers for the root command. Used for testing.
func (c *CLI) SetOutput(out, errOut io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(errOut)
}

func (c *CLI) configureLogging(cmd *cobra.Command, _ []string) error {
	raw, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("log-json")

	level, ok := domain.ParseLogLevel(raw)
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrInvalidLogLevel, "failed to configure logging"), "level", raw)
	}
	c.app.ConfigureLogging(level, jsonLogs)
	return nil
}
