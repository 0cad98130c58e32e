// Package cmd contains the ledger cli commands.
package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/yournet/ledger/foundation/blockchain/client"
)

var (
	nodeURL string
	timeout time.Duration
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&nodeURL, "url", "u", "http://localhost:8000", "Url of the node.")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 2*time.Minute, "How long to wait on the node.")
}

var rootCmd = &cobra.Command{
	Use:          "ledger",
	Short:        "Post content to a ledger node and inspect its chain",
	SilenceUsage: true,
}

// Execute runs the command line and exits with a failure status on error.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// node returns a client for the configured node and a context bounded by
// the configured timeout.
func node(cmd *cobra.Command) (*client.Client, context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	return client.New(nodeURL, &http.Client{}), ctx, cancel
}

// printJSON writes the value as indented JSON to the command output.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
