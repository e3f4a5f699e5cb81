package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/onsave/internal/app"
)

func (c *CLI) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Show what saving files would run",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("output")
			return c.app.Check(rootFlag(cmd), args, format)
		},
	}
	cmd.Flags().StringP("output", "o", app.OutputText, "Output format (text or yaml)")
	return cmd
}
