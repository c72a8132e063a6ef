package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var closeCmd = &cobra.Command{
	Use:   "close <case-id>",
	Short: "Close a case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if workspaceID == "" {
			return fmt.Errorf("workspace is required (set --workspace or CASEBOARD_WORKSPACE)")
		}

		closed, err := caseClient.CloseCase(context.Background(), workspaceID, args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			printCaseJSON(closed)
		} else {
			fmt.Printf("closed %s\n", closed.ID)
		}
		return nil
	},
}
