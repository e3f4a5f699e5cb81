package commands

import "github.com/spf13/cobra"

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Run commands for files saved under a directory",
		Long: "Watch a directory recursively. Every file written below it is treated as a save\n" +
			"and runs the command its .onsaveconfig configures.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := rootFlag(cmd)
			if len(args) == 1 {
				root = args[0]
			}
			return c.app.Watch(cmd.Context(), root)
		},
	}
}
