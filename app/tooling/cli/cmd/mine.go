package cmd

import (
	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to mine its pending records and wait for the block.",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, ctx, cancel := node(cmd)
		defer cancel()

		st, err := c.Mine(ctx)
		if err != nil {
			return err
		}

		return printJSON(cmd, st)
	},
}

func init() {
	rootCmd.AddCommand(mineCmd)
}
