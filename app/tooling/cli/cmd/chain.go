package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var summary bool

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the node's chain.",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, ctx, cancel := node(cmd)
		defer cancel()

		chain, err := c.Chain(ctx)
		if err != nil {
			return err
		}

		if !summary {
			return printJSON(cmd, chain)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "length: %d peers: %v\n", chain.Length, chain.Peers)
		for _, block := range chain.Blocks {
			fmt.Fprintf(out, "#%d %s records[%d] nonce[%d]\n", block.Index, block.Hash, len(block.Records), block.Nonce)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(chainCmd)
	chainCmd.Flags().BoolVarP(&summary, "summary", "s", false, "Print one line per block.")
}
