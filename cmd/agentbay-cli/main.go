// Command agentbay-cli is a small demonstration client for the AgentBay
// SDK: create, list, inspect, and tear down sessions, and dispatch a
// single tool call, from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "agentbay-cli",
		Short: "Demonstration CLI for the AgentBay SDK",
		Long: `agentbay-cli exercises the AgentBay SDK's session lifecycle, tool
dispatch, and context operations from the command line.

Configuration is read the same way the SDK reads it: AGENTBAY_API_KEY (or
legacy WUYING_API_KEY), AGENTBAY_ENDPOINT, and an upward-discovered .env
file.`,
	}

	root.AddCommand(newSessionCommand())
	root.AddCommand(newExecCommand())
	root.AddCommand(newContextCommand())
	return root
}
