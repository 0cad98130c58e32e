package cmd

import (
	"github.com/spf13/cobra"
)

var remote string

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Have the node join the network of another node.",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, ctx, cancel := node(cmd)
		defer cancel()

		st, err := c.RegisterWith(ctx, remote)
		if err != nil {
			return err
		}

		return printJSON(cmd, st)
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVarP(&remote, "node", "n", "", "Base url of the node to register with.")
	registerCmd.MarkFlagRequired("node")
}
