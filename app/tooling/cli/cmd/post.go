package cmd

import (
	"github.com/spf13/cobra"
)

var (
	author  string
	content string
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Submit content to the node's pending pool.",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, ctx, cancel := node(cmd)
		defer cancel()

		st, err := c.Submit(ctx, author, content)
		if err != nil {
			return err
		}

		return printJSON(cmd, st)
	},
}

func init() {
	rootCmd.AddCommand(postCmd)
	postCmd.Flags().StringVarP(&author, "author", "a", "", "Author of the content.")
	postCmd.Flags().StringVarP(&content, "content", "c", "", "Content to post.")
	postCmd.MarkFlagRequired("author")
	postCmd.MarkFlagRequired("content")
}
