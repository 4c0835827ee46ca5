// Package commands implements the CLI commands for the bale asset pipeline.
package commands

import (
	"context"

	"github.com/spf13/cobra"
	"go.trai.ch/bale/internal/app"
	"go.trai.ch/bale/internal/build"
)

// CLI represents the command line interface for bale.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "bale",
		Short:         "An asset pipeline for scripts and styles",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", "assets.yaml", "Path to the asset configuration file")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		path, _ := cmd.Flags().GetString("config")
		a.SetConfigPath(path)
	}

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newRenderCmd())
	rootCmd.AddCommand(c.newBakeCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newCleanCmd())
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
