package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <case-id>",
	Short: "Show a case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if workspaceID == "" {
			return fmt.Errorf("workspace is required (set --workspace or CASEBOARD_WORKSPACE)")
		}

		c, err := caseClient.GetCase(context.Background(), workspaceID, args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			printCaseJSON(c)
		} else {
			printCaseDetail(c)
		}
		return nil
	},
}
