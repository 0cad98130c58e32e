// This program talks to a ledger node from the command line.
package main

import "github.com/yournet/ledger/app/tooling/cli/cmd"

func main() {
	cmd.Execute()
}
