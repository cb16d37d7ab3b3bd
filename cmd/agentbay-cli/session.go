package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aliyun/agentbay-sdk-go"
)

func newSessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage sessions",
	}
	cmd.AddCommand(newSessionCreateCommand())
	cmd.AddCommand(newSessionListCommand())
	cmd.AddCommand(newSessionDeleteCommand())
	return cmd
}

func newSessionCreateCommand() *cobra.Command {
	var imageID string
	var labels map[string]string
	var vpc bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ab, err := agentbay.New()
			if err != nil {
				return err
			}

			params := agentbay.NewCreateSessionParams().WithImageId(imageID).WithVPC(vpc)
			if len(labels) > 0 {
				params = params.WithLabels(labels)
			}

			result := ab.Create(context.Background(), params)
			if !result.Success {
				return fmt.Errorf("create session: %s", result.ErrorMessage)
			}
			fmt.Println(result.Session.SessionID)
			return nil
		},
	}
	cmd.Flags().StringVar(&imageID, "image", "", "base image id")
	cmd.Flags().StringToStringVar(&labels, "label", nil, "label key=value, repeatable")
	cmd.Flags().BoolVar(&vpc, "vpc", false, "create a VPC-routed session")
	return cmd
}

func newSessionListCommand() *cobra.Command {
	var page, limit int
	var labels map[string]string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ab, err := agentbay.New()
			if err != nil {
				return err
			}

			result := ab.List(context.Background(), labels, page, limit)
			if !result.Success {
				return fmt.Errorf("list sessions: %s", result.ErrorMessage)
			}
			for _, id := range result.SessionIDs {
				fmt.Println(id)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&limit, "limit", 10, "page size")
	cmd.Flags().StringToStringVar(&labels, "label", nil, "label filter key=value, repeatable")
	return cmd
}

func newSessionDeleteCommand() *cobra.Command {
	var syncContext bool

	cmd := &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Release a session",
		Args:  cobra.ExactArgs(1),
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

			result := ab.Delete(ctx, got.Session, syncContext)
			if !result.Success {
				return fmt.Errorf("delete session: %s", result.ErrorMessage)
			}
			fmt.Println("deleted", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&syncContext, "sync", false, "flush context mounts before releasing")
	return cmd
}
