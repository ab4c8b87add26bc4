// Package cli provides the chessactivity command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vytor/chessactivity/internal/config"
	"github.com/vytor/chessactivity/internal/logger"
	"github.com/vytor/chessactivity/internal/services"
)

// ServiceFactory builds the activity service for one command run. The
// returned close function releases whatever the service holds open.
type ServiceFactory func(cfg config.Config, useCache bool) (services.ActivityService, func() error, error)

// CLI holds what every subcommand shares
type CLI struct {
	Config     config.Config
	newService ServiceFactory
	verbose    bool
}

func (c *CLI) service(useCache bool) (services.ActivityService, func() error, error) {
	return c.newService(c.Config, useCache)
}

// NewRootCmd creates the root command
func NewRootCmd(version string, factory ServiceFactory) *cobra.Command {
	if factory == nil {
		factory = DefaultServiceFactory
	}
	c := &CLI{newService: factory}

	rootCmd := &cobra.Command{
		Use:           "chessactivity",
		Short:         "Analyze a Chess.com player's activity",
		Long:          `Fetches a player's public game archives from Chess.com and reports volume, time control breakdown and activity patterns for a period.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.ErrOrStderr())
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log debug output to stderr")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "chessactivity %s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newActivityCmd(c))
	rootCmd.AddCommand(newSyncCmd(c))
	rootCmd.AddCommand(newCacheCmd(c))
	return rootCmd
}

func (c *CLI) setup(stderr io.Writer) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.Config = cfg

	level := logger.WARN
	if c.verbose {
		level = logger.DEBUG
	}
	logger.SetDefault(logger.New(
		logger.WithOutput(stderr),
		logger.WithLevel(level),
		logger.WithColors(stderr == os.Stderr),
	))
	return nil
}
