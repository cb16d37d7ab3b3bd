package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aliyun/agentbay-sdk-go"
)

func newExecCommand() *cobra.Command {
	var argsJSON string

	cmd := &cobra.Command{
		Use:   "exec <session-id> <tool-name>",
		Short: "Call a tool on an existing session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ab, err := agentbay.New()
			if err != nil {
				return err
			}
			ctx := context.Background()

			got := ab.Get(ctx, args[0])
			if !got.Success {
				return fmt.Errorf("lookup session: %s", got.ErrorMessage)
			}

			toolArgs := map[string]any{}
			if argsJSON != "" {
				if err := json.Unmarshal([]byte(argsJSON), &toolArgs); err != nil {
					return fmt.Errorf("parse --args: %w", err)
				}
			}

			result := got.Session.CallTool(ctx, args[1], toolArgs, false)
			if !result.Success {
				return fmt.Errorf("call tool: %s", result.ErrorMessage)
			}
			fmt.Println(result.Data)
			return nil
		},
	}
	cmd.Flags().StringVar(&argsJSON, "args", "", "tool arguments as a JSON object")
	return cmd
}
