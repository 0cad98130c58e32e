package cmd

import (
	"github.com/spf13/cobra"
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Print the records waiting to be mined.",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, ctx, cancel := node(cmd)
		defer cancel()

		records, err := c.Pending(ctx)
		if err != nil {
			return err
		}

		return printJSON(cmd, records)
	},
}

func init() {
	rootCmd.AddCommand(pendingCmd)
}
