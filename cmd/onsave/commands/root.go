// Package commands implements the CLI commands for onsave.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/onsave/internal/build"
)

// CLI represents the command line interface for onsave.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Watch(ctx context.Context, root string) error
	Serve(ctx context.Context, root string) error
	Run(ctx context.Context, root string, files []string) error
	Check(root string, files []string, format string) error
	SetVerbose(enable bool)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "onsave",
		Short:         "Run a command whenever a file is saved",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.PersistentFlags().StringP("root", "r", "", "Project root (defaults to the working directory)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug messages")

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			c.app.SetVerbose(true)
		}
	}

	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newServeCmd())
	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newCheckCmd())
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

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func rootFlag(cmd *cobra.Command) string {
	root, _ := cmd.Flags().GetString("root")
	return root
}
