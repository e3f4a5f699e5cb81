package commands

import "github.com/spf13/cobra"

func (c *CLI) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run commands for documents an editor reports on stdin",
		Long: "Read JSON lines from stdin, one message per line:\n\n" +
			`  {"type":"open","id":"1","path":"/abs/file.go"}` + "\n" +
			`  {"type":"save","id":"1"}` + "\n" +
			`  {"type":"close","id":"1"}` + "\n\n" +
			"Save messages may carry a version and an action (saved, reloaded or renamed).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Serve(cmd.Context(), rootFlag(cmd))
		},
	}
}
