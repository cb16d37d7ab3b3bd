package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aliyun/agentbay-sdk-go"
)

func newContextCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Manage persistent contexts",
	}
	cmd.AddCommand(newContextListCommand())
	cmd.AddCommand(newContextCreateCommand())
	return cmd
}

func newContextListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contexts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ab, err := agentbay.New()
			if err != nil {
				return err
			}
			result := ab.Context.List(context.Background(), 100, "")
			if !result.Success {
				return fmt.Errorf("list contexts: %s", result.ErrorMessage)
			}
			for _, c := range result.Contexts {
				fmt.Printf("%s\t%s\n", c.ID, c.Name)
			}
			return nil
		},
	}
	return cmd
}

func newContextCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create or look up a context by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ab, err := agentbay.New()
			if err != nil {
				return err
			}
			result := ab.Context.Create(context.Background(), args[0])
			if !result.Success {
				return fmt.Errorf("create context: %s", result.ErrorMessage)
			}
			fmt.Println(result.ContextID)
			return nil
		},
	}
	return cmd
}
